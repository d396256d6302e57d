package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/emanuelratliff/abstract-inventory/internal/audit"
	"github.com/emanuelratliff/abstract-inventory/internal/auth"
	"github.com/emanuelratliff/abstract-inventory/internal/inventory"
	"github.com/emanuelratliff/abstract-inventory/internal/models"
)

// importUserReq mirrors the original import form: the employee plus two
// monitors, a desktop, laptop, printer and scanner. Hardware sections may be
// left blank.
type importUserReq struct {
	EmployeeID int    `json:"employee_id" validate:"required,gt=0"`
	Username   string `json:"username" validate:"required,max=64"`
	FirstName  string `json:"first_name" validate:"required,max=64"`
	LastName   string `json:"last_name" validate:"required,max=64"`
	Email      string `json:"email" validate:"required,email,max=120"`
	RoomNumber string `json:"room_number" validate:"required,max=5"`

	Monitor1SerialNumber string `json:"monitor_serial_number1"`
	Monitor1AssetTag     string `json:"monitor_asset_tag1"`
	Monitor2SerialNumber string `json:"monitor_serial_number2"`
	Monitor2AssetTag     string `json:"monitor_asset_tag2"`

	DesktopName         string `json:"desktop_name"`
	DesktopSerialNumber string `json:"desktop_serial_number"`
	DesktopAssetTag     string `json:"desktop_asset_tag"`

	LaptopName         string `json:"laptop_name"`
	LaptopSerialNumber string `json:"laptop_serial_number"`
	LaptopAssetTag     string `json:"laptop_asset_tag"`

	PrinterModel        string `json:"printer_model"`
	PrinterSerialNumber string `json:"printer_serial_number"`
	PrinterAssetTag     string `json:"printer_asset_tag"`

	ScannerModel        string `json:"scanner_model"`
	ScannerSerialNumber string `json:"scanner_serial_number"`
	ScannerAssetTag     string `json:"scanner_asset_tag"`
}

func (req importUserReq) toImport() inventory.EmployeeImport {
	return inventory.EmployeeImport{
		Employee: models.Employee{
			EmployeeID: req.EmployeeID,
			Username:   req.Username,
			FirstName:  req.FirstName,
			LastName:   req.LastName,
			Email:      req.Email,
			RoomNumber: req.RoomNumber,
		},
		Monitors: []models.Monitor{
			{SerialNumber: req.Monitor1SerialNumber, AssetTag: req.Monitor1AssetTag},
			{SerialNumber: req.Monitor2SerialNumber, AssetTag: req.Monitor2AssetTag},
		},
		Desktop: models.Desktop{Name: req.DesktopName, SerialNumber: req.DesktopSerialNumber, AssetTag: req.DesktopAssetTag},
		Laptop:  models.Laptop{Name: req.LaptopName, SerialNumber: req.LaptopSerialNumber, AssetTag: req.LaptopAssetTag},
		Printer: models.Printer{Model: req.PrinterModel, SerialNumber: req.PrinterSerialNumber, AssetTag: req.PrinterAssetTag},
		Scanner: models.Scanner{Model: req.ScannerModel, SerialNumber: req.ScannerSerialNumber, AssetTag: req.ScannerAssetTag},
	}
}

func (req importUserReq) auditFields() map[string]any {
	return map[string]any{
		"employee_id": req.EmployeeID,
		"username":    req.Username,
		"first_name":  req.FirstName,
		"last_name":   req.LastName,
		"email":       req.Email,
		"room_number": req.RoomNumber,

		"monitor_serial_number1": req.Monitor1SerialNumber,
		"monitor_asset_tag1":     req.Monitor1AssetTag,
		"monitor_serial_number2": req.Monitor2SerialNumber,
		"monitor_asset_tag2":     req.Monitor2AssetTag,

		"desktop_name":          req.DesktopName,
		"desktop_serial_number": req.DesktopSerialNumber,
		"desktop_asset_tag":     req.DesktopAssetTag,

		"laptop_name":          req.LaptopName,
		"laptop_serial_number": req.LaptopSerialNumber,
		"laptop_asset_tag":     req.LaptopAssetTag,

		"printer_model":         req.PrinterModel,
		"printer_serial_number": req.PrinterSerialNumber,
		"printer_asset_tag":     req.PrinterAssetTag,

		"scanner_model":         req.ScannerModel,
		"scanner_serial_number": req.ScannerSerialNumber,
		"scanner_asset_tag":     req.ScannerAssetTag,
	}
}

func ImportUser(db *gorm.DB, svc *inventory.Service, aud *audit.Recorder, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := auth.FromContext(r.Context())
		var req importUserReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		req.Email = strings.TrimSpace(strings.ToLower(req.Email))
		if err := validator.New().Struct(req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		var n int64
		db.Model(&models.Employee{}).Where("employee_id = ?", req.EmployeeID).Count(&n)
		if n > 0 {
			http.Error(w, "employee id already in use", http.StatusConflict)
			return
		}
		db.Model(&models.Employee{}).Where("username = ? OR email = ?", req.Username, req.Email).Count(&n)
		if n > 0 {
			http.Error(w, "username or email already in use", http.StatusConflict)
			return
		}
		if err := svc.ImportEmployee(r.Context(), req.toImport()); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		aud.Record(r.Context(), p.UserID, p.Username, "USER_IMPORT", req.auditFields())
		respondMessage(w, http.StatusCreated, "User submitted!")
	}
}

// SearchEmployees serves both modes of the original search page: with ?q= it
// returns every exact match on username, first name, last name, email or
// room number; without it, a page of all employees ordered by first name.
func SearchEmployees(db *gorm.DB, perPage int, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if q := r.URL.Query().Get("q"); q != "" {
			var results []models.Employee
			err := db.Where(
				"username = ? OR first_name = ? OR last_name = ? OR email = ? OR room_number = ?",
				q, q, q, q, q,
			).Order("first_name").Find(&results).Error
			if err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			respondJSON(w, newListPage(results, int64(len(results)), 1, perPage))
			return
		}
		page := pageParam(r)
		var total int64
		if err := db.Model(&models.Employee{}).Count(&total).Error; err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		var results []models.Employee
		err := db.Order("first_name").Offset((page - 1) * perPage).Limit(perPage).Find(&results).Error
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		respondJSON(w, newListPage(results, total, page, perPage))
	}
}

func employeeIDParam(r *http.Request) (int, error) {
	return strconv.Atoi(chi.URLParam(r, "id"))
}

func GetEmployee(db *gorm.DB, svc *inventory.Service, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := employeeIDParam(r)
		if err != nil {
			http.Error(w, "invalid employee id", http.StatusBadRequest)
			return
		}
		var emp models.Employee
		if err := db.First(&emp, "employee_id = ?", id).Error; err != nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		hw, err := svc.LoadHardware(r.Context(), id)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		respondJSON(w, map[string]any{"employee": emp, "hardware": hw})
	}
}

func UpdateEmployee(db *gorm.DB, svc *inventory.Service, aud *audit.Recorder, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := auth.FromContext(r.Context())
		id, err := employeeIDParam(r)
		if err != nil {
			http.Error(w, "invalid employee id", http.StatusBadRequest)
			return
		}
		var req importUserReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		req.EmployeeID = id
		req.Email = strings.TrimSpace(strings.ToLower(req.Email))
		if err := validator.New().Struct(req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := svc.UpdateEmployee(r.Context(), id, req.toImport()); err != nil {
			if errors.Is(err, inventory.ErrUnknownEmployee) {
				http.Error(w, "not found", http.StatusNotFound)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		aud.Record(r.Context(), p.UserID, p.Username, "USER_EDIT", req.auditFields())
		respondMessage(w, http.StatusOK, "User updated!")
	}
}

func DeleteEmployee(db *gorm.DB, svc *inventory.Service, aud *audit.Recorder, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := auth.FromContext(r.Context())
		id, err := employeeIDParam(r)
		if err != nil {
			http.Error(w, "invalid employee id", http.StatusBadRequest)
			return
		}
		emp, err := svc.DeleteEmployee(r.Context(), id)
		if err != nil {
			if errors.Is(err, inventory.ErrUnknownEmployee) {
				http.Error(w, "not found", http.StatusNotFound)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		aud.Record(r.Context(), p.UserID, p.Username, "EMPLOYEE_DELETE", map[string]any{
			"employee_id": id, "username": emp.Username,
		})
		respondMessage(w, http.StatusOK, "Record Deleted!")
	}
}
