package inventory

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/emanuelratliff/abstract-inventory/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

func seedEmployee(t *testing.T, db *gorm.DB, id int, username string) {
	t.Helper()
	require.NoError(t, db.Create(&models.Employee{
		EmployeeID: id,
		Username:   username,
		FirstName:  "Test",
		LastName:   "User",
		Email:      username + "@example.com",
		RoomNumber: "101",
	}).Error)
}

func TestCheckOutCheckInCycle(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	seedEmployee(t, db, 42, "jdoe")
	require.NoError(t, db.Create(&models.Item{Name: "Projector", SerialNumber: "SN-1", AssetTag: "TAG-1"}).Error)

	rec, err := svc.CheckOut(ctx, "TAG-1", 42)
	require.NoError(t, err)
	assert.Equal(t, "jdoe", rec.Username)
	assert.Equal(t, "Projector", rec.ItemName)
	assert.Equal(t, "SN-1", rec.SerialNumber)

	t.Run("second checkout of same tag fails", func(t *testing.T) {
		_, err := svc.CheckOut(ctx, "TAG-1", 42)
		assert.ErrorIs(t, err, ErrAlreadyCheckedOut)
	})

	t.Run("check in frees the tag", func(t *testing.T) {
		back, err := svc.CheckIn(ctx, "TAG-1")
		require.NoError(t, err)
		assert.Equal(t, "jdoe", back.Username)

		_, err = svc.CheckOut(ctx, "TAG-1", 42)
		assert.NoError(t, err)
	})
}

func TestCheckOutUnknowns(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	seedEmployee(t, db, 42, "jdoe")
	require.NoError(t, db.Create(&models.Item{Name: "Projector", AssetTag: "TAG-1"}).Error)

	t.Run("unknown asset", func(t *testing.T) {
		_, err := svc.CheckOut(ctx, "NO-SUCH-TAG", 42)
		assert.ErrorIs(t, err, ErrUnknownAsset)
	})

	t.Run("unknown employee", func(t *testing.T) {
		_, err := svc.CheckOut(ctx, "TAG-1", 9999)
		assert.ErrorIs(t, err, ErrUnknownEmployee)
	})
}

func TestCheckInWithoutCheckout(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)

	_, err := svc.CheckIn(context.Background(), "TAG-1")
	assert.ErrorIs(t, err, ErrNotCheckedOut)
}

func TestImportAndDeleteEmployee(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	imp := EmployeeImport{
		Employee: models.Employee{
			EmployeeID: 42,
			Username:   "jdoe",
			FirstName:  "Jane",
			LastName:   "Doe",
			Email:      "jdoe@example.com",
			RoomNumber: "101",
		},
		Monitors: []models.Monitor{
			{SerialNumber: "M1", AssetTag: "MT1"},
			{SerialNumber: "M2", AssetTag: "MT2"},
		},
		Desktop: models.Desktop{Name: "dt-jdoe", SerialNumber: "D1", AssetTag: "DT1"},
		Laptop:  models.Laptop{Name: "lt-jdoe", SerialNumber: "L1", AssetTag: "LT1"},
		Printer: models.Printer{Model: "LaserJet", SerialNumber: "P1", AssetTag: "PT1"},
		Scanner: models.Scanner{Model: "ScanJet", SerialNumber: "S1", AssetTag: "ST1"},
	}
	require.NoError(t, svc.ImportEmployee(ctx, imp))

	hw, err := svc.LoadHardware(ctx, 42)
	require.NoError(t, err)
	require.Len(t, hw.Monitors, 2)
	assert.Equal(t, "M1", hw.Monitors[0].SerialNumber)
	assert.Equal(t, "dt-jdoe", hw.Desktop.Name)
	assert.Equal(t, "LaserJet", hw.Printer.Model)

	emp, err := svc.DeleteEmployee(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, "jdoe", emp.Username)

	// no hardware rows may survive the employee
	for name, model := range map[string]any{
		"monitors": &models.Monitor{},
		"desktops": &models.Desktop{},
		"laptops":  &models.Laptop{},
		"printers": &models.Printer{},
		"scanners": &models.Scanner{},
	} {
		var n int64
		require.NoError(t, db.Model(model).Where("employee_id = ?", 42).Count(&n).Error)
		assert.Zero(t, n, name)
	}

	_, err = svc.DeleteEmployee(ctx, 42)
	assert.ErrorIs(t, err, ErrUnknownEmployee)
}

func TestUpdateEmployee(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	require.NoError(t, svc.ImportEmployee(ctx, EmployeeImport{
		Employee: models.Employee{
			EmployeeID: 7,
			Username:   "asmith",
			FirstName:  "Alex",
			LastName:   "Smith",
			Email:      "asmith@example.com",
		},
		Monitors: []models.Monitor{{SerialNumber: "M1", AssetTag: "MT1"}},
	}))

	upd := EmployeeImport{
		Employee: models.Employee{
			Username:   "asmith",
			FirstName:  "Alexandra",
			LastName:   "Smith",
			Email:      "asmith@example.com",
			RoomNumber: "202",
		},
		Monitors: []models.Monitor{
			{SerialNumber: "M1-new", AssetTag: "MT1"},
			{SerialNumber: "M2", AssetTag: "MT2"},
		},
		Desktop: models.Desktop{Name: "dt-asmith", SerialNumber: "D1", AssetTag: "DT1"},
	}
	require.NoError(t, svc.UpdateEmployee(ctx, 7, upd))

	var emp models.Employee
	require.NoError(t, db.First(&emp, "employee_id = ?", 7).Error)
	assert.Equal(t, "Alexandra", emp.FirstName)
	assert.Equal(t, "202", emp.RoomNumber)

	hw, err := svc.LoadHardware(ctx, 7)
	require.NoError(t, err)
	require.Len(t, hw.Monitors, 2)
	assert.Equal(t, "M1-new", hw.Monitors[0].SerialNumber)
	assert.Equal(t, "M2", hw.Monitors[1].SerialNumber)
	assert.Equal(t, "dt-asmith", hw.Desktop.Name)

	t.Run("unknown employee", func(t *testing.T) {
		err := svc.UpdateEmployee(ctx, 9999, upd)
		assert.ErrorIs(t, err, ErrUnknownEmployee)
	})
}
