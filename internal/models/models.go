package models

import (
	"crypto/md5"
	"fmt"
	"strings"
	"time"
)

// User is a login principal for the inventory system, distinct from the
// Employee records it tracks.
type User struct {
	ID           string     `gorm:"type:uuid;primaryKey" json:"id"`
	Username     string     `gorm:"uniqueIndex;size:64;not null" json:"username"`
	Email        string     `gorm:"uniqueIndex;size:120;not null" json:"email"`
	PasswordHash string     `gorm:"not null" json:"-"`
	AboutMe      string     `gorm:"size:140" json:"about_me"`
	LastSeen     *time.Time `gorm:"index" json:"last_seen,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Avatar returns a gravatar URL derived from the user's email.
func (u User) Avatar(size int) string {
	digest := md5.Sum([]byte(strings.TrimSpace(strings.ToLower(u.Email))))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%x?d=identicon&s=%d", digest, size)
}

// Admin marks a user as authorized for privileged operations. Row existence
// is the grant; at most one grant per user.
type Admin struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Username  string    `gorm:"size:64;not null" json:"username"`
	UserID    string    `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Employee is a tracked staff member who owns hardware. The primary key is
// the employee id staff enter on import, not a generated one.
type Employee struct {
	EmployeeID int    `gorm:"primaryKey" json:"employee_id"`
	Username   string `gorm:"uniqueIndex;size:64;not null" json:"username"`
	FirstName  string `gorm:"size:64;not null" json:"first_name"`
	LastName   string `gorm:"size:64;not null" json:"last_name"`
	Email      string `gorm:"uniqueIndex;size:120;not null" json:"email"`
	RoomNumber string `gorm:"size:5" json:"room_number"`
}

type Monitor struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	SerialNumber string `gorm:"size:40" json:"serial_number"`
	AssetTag     string `gorm:"size:40" json:"asset_tag"`
	EmployeeID   int    `gorm:"index;not null" json:"employee_id"`
}

type Desktop struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string `gorm:"size:40" json:"name"`
	SerialNumber string `gorm:"size:40" json:"serial_number"`
	AssetTag     string `gorm:"size:40" json:"asset_tag"`
	EmployeeID   int    `gorm:"index;not null" json:"employee_id"`
}

type Laptop struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string `gorm:"size:40" json:"name"`
	SerialNumber string `gorm:"size:40" json:"serial_number"`
	AssetTag     string `gorm:"size:40" json:"asset_tag"`
	EmployeeID   int    `gorm:"index;not null" json:"employee_id"`
}

type Printer struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Model        string `gorm:"size:40" json:"model"`
	SerialNumber string `gorm:"size:40" json:"serial_number"`
	AssetTag     string `gorm:"size:40" json:"asset_tag"`
	EmployeeID   int    `gorm:"index;not null" json:"employee_id"`
}

type Scanner struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Model        string `gorm:"size:40" json:"model"`
	SerialNumber string `gorm:"size:40" json:"serial_number"`
	AssetTag     string `gorm:"size:40" json:"asset_tag"`
	EmployeeID   int    `gorm:"index;not null" json:"employee_id"`
}

// Item is a miscellaneous inventory item, the pool the checkout ledger
// draws from. Asset tags are unique so a ledger row can key on them.
type Item struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string `gorm:"size:40;not null" json:"name"`
	SerialNumber string `gorm:"size:40" json:"serial_number"`
	AssetTag     string `gorm:"uniqueIndex;size:40;not null" json:"asset_tag"`
}

// Checkout is one row of the checkout ledger: the item with this asset tag
// is currently out, held by Username. The unique index on AssetTag turns the
// old check-then-insert into a conditional insert, so two concurrent
// checkouts of the same tag cannot both commit.
type Checkout struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Timestamp    time.Time `gorm:"index;not null" json:"timestamp"`
	Username     string    `gorm:"size:64;not null" json:"username"`
	ItemName     string    `gorm:"size:40;not null" json:"item_name"`
	SerialNumber string    `gorm:"size:40" json:"serial_number"`
	AssetTag     string    `gorm:"uniqueIndex;size:40;not null" json:"asset_tag"`
}

// Toner is a consumable stock entry, tracked by quantity.
type Toner struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Model     string `gorm:"size:40;not null" json:"model"`
	Cartridge string `gorm:"size:40;not null" json:"cartridge"`
	Color     string `gorm:"size:40" json:"color"`
	Quantity  int    `json:"quantity"`
}

// AuditLog records who changed what. Metadata carries the changed fields.
type AuditLog struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    *string   `gorm:"type:uuid;index" json:"user_id,omitempty"`
	Action    string    `gorm:"not null" json:"action"`
	Metadata  JSONB     `gorm:"type:jsonb" json:"metadata"`
	CreatedAt time.Time `json:"created_at"`
}

// All lists every model for AutoMigrate, owners before dependents.
func All() []any {
	return []any{
		&User{}, &Admin{},
		&Employee{}, &Monitor{}, &Desktop{}, &Laptop{}, &Printer{}, &Scanner{},
		&Item{}, &Checkout{}, &Toner{},
		&AuditLog{},
	}
}
