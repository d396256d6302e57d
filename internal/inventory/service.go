// Package inventory holds the stateful workflows of the tracker: the
// checkout/check-in ledger and the employee import/delete sequences that the
// HTTP handlers stay thin on top of.
package inventory

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/emanuelratliff/abstract-inventory/internal/models"
)

var (
	// ErrAlreadyCheckedOut means a ledger row for the tag already exists.
	ErrAlreadyCheckedOut = errors.New("item already checked out")
	// ErrUnknownAsset means no inventory item carries the tag.
	ErrUnknownAsset = errors.New("item not in inventory")
	// ErrNotCheckedOut means check-in was requested for a tag with no
	// active ledger row.
	ErrNotCheckedOut = errors.New("no active checkout for item")
	// ErrUnknownEmployee means the referenced employee does not exist.
	ErrUnknownEmployee = errors.New("employee not found")
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

// CheckOut moves the item with assetTag from AVAILABLE to CHECKED_OUT, held
// by the employee. The ledger row snapshots the item's name and serial so the
// ledger stays readable even if the item record is later edited. The insert
// runs in one transaction and the ledger's unique tag index backstops the
// existence pre-check, so concurrent checkouts of the same tag cannot both
// commit.
func (s *Service) CheckOut(ctx context.Context, assetTag string, employeeID int) (*models.Checkout, error) {
	var rec *models.Checkout
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var emp models.Employee
		if err := tx.First(&emp, "employee_id = ?", employeeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUnknownEmployee
			}
			return err
		}
		var item models.Item
		if err := tx.First(&item, "asset_tag = ?", assetTag).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUnknownAsset
			}
			return err
		}
		var n int64
		if err := tx.Model(&models.Checkout{}).Where("asset_tag = ?", assetTag).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrAlreadyCheckedOut
		}
		co := &models.Checkout{
			Timestamp:    time.Now().UTC(),
			Username:     emp.Username,
			ItemName:     item.Name,
			SerialNumber: item.SerialNumber,
			AssetTag:     item.AssetTag,
		}
		if err := tx.Create(co).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyCheckedOut
			}
			return err
		}
		rec = co
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// CheckIn returns the item to AVAILABLE by deleting its ledger row. A tag
// with no active checkout fails with ErrNotCheckedOut rather than silently
// succeeding, so a mistyped tag is caught instead of swallowed.
func (s *Service) CheckIn(ctx context.Context, assetTag string) (*models.Checkout, error) {
	var rec models.Checkout
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&rec, "asset_tag = ?", assetTag).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotCheckedOut
			}
			return err
		}
		return tx.Delete(&models.Checkout{}, "asset_tag = ?", assetTag).Error
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// EmployeeImport is one import-form submission: the employee plus the
// hardware registered to them.
type EmployeeImport struct {
	Employee models.Employee
	Monitors []models.Monitor
	Desktop  models.Desktop
	Laptop   models.Laptop
	Printer  models.Printer
	Scanner  models.Scanner
}

// ImportEmployee creates the employee and all hardware rows in a single
// transaction. The original system committed these piecemeal and could leave
// a partial record behind; here a failure anywhere rolls everything back.
func (s *Service) ImportEmployee(ctx context.Context, imp EmployeeImport) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&imp.Employee).Error; err != nil {
			return err
		}
		id := imp.Employee.EmployeeID
		for i := range imp.Monitors {
			imp.Monitors[i].EmployeeID = id
			if err := tx.Create(&imp.Monitors[i]).Error; err != nil {
				return err
			}
		}
		imp.Desktop.EmployeeID = id
		imp.Laptop.EmployeeID = id
		imp.Printer.EmployeeID = id
		imp.Scanner.EmployeeID = id
		if err := tx.Create(&imp.Desktop).Error; err != nil {
			return err
		}
		if err := tx.Create(&imp.Laptop).Error; err != nil {
			return err
		}
		if err := tx.Create(&imp.Printer).Error; err != nil {
			return err
		}
		return tx.Create(&imp.Scanner).Error
	})
}

// DeleteEmployee removes the employee and every hardware row referencing
// them, dependents first, in one transaction. Nothing is left orphaned and
// nothing is deleted if any step fails.
func (s *Service) DeleteEmployee(ctx context.Context, employeeID int) (*models.Employee, error) {
	var emp models.Employee
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&emp, "employee_id = ?", employeeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUnknownEmployee
			}
			return err
		}
		for _, m := range []any{
			&models.Monitor{}, &models.Desktop{}, &models.Laptop{},
			&models.Printer{}, &models.Scanner{},
		} {
			if err := tx.Where("employee_id = ?", employeeID).Delete(m).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&models.Employee{}, "employee_id = ?", employeeID).Error
	})
	if err != nil {
		return nil, err
	}
	return &emp, nil
}

// UpdateEmployee rewrites the employee record and every hardware row from
// one edit-form submission, in a single transaction. Hardware rows that the
// import never created (blank sections on the original form) are created on
// first edit instead of being dropped on the floor.
func (s *Service) UpdateEmployee(ctx context.Context, employeeID int, imp EmployeeImport) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var emp models.Employee
		if err := tx.First(&emp, "employee_id = ?", employeeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUnknownEmployee
			}
			return err
		}
		emp.Username = imp.Employee.Username
		emp.FirstName = imp.Employee.FirstName
		emp.LastName = imp.Employee.LastName
		emp.Email = imp.Employee.Email
		emp.RoomNumber = imp.Employee.RoomNumber
		if err := tx.Save(&emp).Error; err != nil {
			return err
		}

		var monitors []models.Monitor
		if err := tx.Where("employee_id = ?", employeeID).Order("id").Find(&monitors).Error; err != nil {
			return err
		}
		for i, m := range imp.Monitors {
			if i < len(monitors) {
				monitors[i].SerialNumber = m.SerialNumber
				monitors[i].AssetTag = m.AssetTag
				if err := tx.Save(&monitors[i]).Error; err != nil {
					return err
				}
				continue
			}
			m.EmployeeID = employeeID
			if err := tx.Create(&m).Error; err != nil {
				return err
			}
		}

		var desktop models.Desktop
		switch err := tx.Where("employee_id = ?", employeeID).First(&desktop).Error; {
		case err == nil:
			desktop.Name = imp.Desktop.Name
			desktop.SerialNumber = imp.Desktop.SerialNumber
			desktop.AssetTag = imp.Desktop.AssetTag
			if err := tx.Save(&desktop).Error; err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			imp.Desktop.EmployeeID = employeeID
			if err := tx.Create(&imp.Desktop).Error; err != nil {
				return err
			}
		default:
			return err
		}

		var laptop models.Laptop
		switch err := tx.Where("employee_id = ?", employeeID).First(&laptop).Error; {
		case err == nil:
			laptop.Name = imp.Laptop.Name
			laptop.SerialNumber = imp.Laptop.SerialNumber
			laptop.AssetTag = imp.Laptop.AssetTag
			if err := tx.Save(&laptop).Error; err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			imp.Laptop.EmployeeID = employeeID
			if err := tx.Create(&imp.Laptop).Error; err != nil {
				return err
			}
		default:
			return err
		}

		var printer models.Printer
		switch err := tx.Where("employee_id = ?", employeeID).First(&printer).Error; {
		case err == nil:
			printer.Model = imp.Printer.Model
			printer.SerialNumber = imp.Printer.SerialNumber
			printer.AssetTag = imp.Printer.AssetTag
			if err := tx.Save(&printer).Error; err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			imp.Printer.EmployeeID = employeeID
			if err := tx.Create(&imp.Printer).Error; err != nil {
				return err
			}
		default:
			return err
		}

		var scanner models.Scanner
		switch err := tx.Where("employee_id = ?", employeeID).First(&scanner).Error; {
		case err == nil:
			scanner.Model = imp.Scanner.Model
			scanner.SerialNumber = imp.Scanner.SerialNumber
			scanner.AssetTag = imp.Scanner.AssetTag
			return tx.Save(&scanner).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			imp.Scanner.EmployeeID = employeeID
			return tx.Create(&imp.Scanner).Error
		default:
			return err
		}
	})
}

// Hardware bundles everything registered to one employee for the detail and
// edit views.
type Hardware struct {
	Monitors []models.Monitor `json:"monitors"`
	Desktop  models.Desktop   `json:"desktop"`
	Laptop   models.Laptop    `json:"laptop"`
	Printer  models.Printer   `json:"printer"`
	Scanner  models.Scanner   `json:"scanner"`
}

// LoadHardware fetches all hardware rows for an employee, monitors in
// insertion order so "monitor 1"/"monitor 2" stay stable across edits.
func (s *Service) LoadHardware(ctx context.Context, employeeID int) (*Hardware, error) {
	var hw Hardware
	tx := s.db.WithContext(ctx)
	if err := tx.Where("employee_id = ?", employeeID).Order("id").Find(&hw.Monitors).Error; err != nil {
		return nil, err
	}
	if err := tx.Where("employee_id = ?", employeeID).First(&hw.Desktop).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if err := tx.Where("employee_id = ?", employeeID).First(&hw.Laptop).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if err := tx.Where("employee_id = ?", employeeID).First(&hw.Printer).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if err := tx.Where("employee_id = ?", employeeID).First(&hw.Scanner).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return &hw, nil
}
