package model

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// allModels lists every model to be auto-migrated, parents before children.
var allModels = []interface{}{
	&Permission{},
	&User{},
	&Customer{},
	&Contact{},
	&Position{},
	&Employee{},
	&Color{},
	&Motor{},
	&VehicleType{},
	&Make{},
	&VehicleModel{},
	&Transmission{},
	&Vehicle{},
	&AdmStatus{},
	&OpStatus{},
	&Priority{},
	&Order{},
	&ExtraItem{},
	&ExtraInfo{},
	&InventoryType{},
	&InventoryItem{},
	&InventoryData{},
	&BodyworkItem{},
	&BodyworkData{},
	&AppointmentReason{},
	&AppointmentStatus{},
	&Appointment{},
	&AuditLog{},
}

// AutoMigrate creates or updates all tables in the given database.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(allModels...)
}

// Seed inserts the default lookup rows that order and appointment defaults
// point at. Existing rows are left alone.
func Seed(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		rows := []interface{}{
			&AdmStatus{ID: DefaultAdmStatusID, Status: "Open"},
			&OpStatus{ID: DefaultOpStatusID, Status: "Received"},
			&Priority{ID: DefaultPriorityID, Priority: "Normal"},
			&AppointmentStatus{ID: DefaultAppointmentStatusID, Status: "Scheduled"},
		}
		for _, row := range rows {
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(row).Error; err != nil {
				return err
			}
		}
		if tx.Dialector.Name() != "postgres" {
			return nil
		}
		// Explicit ids do not advance postgres sequences.
		for _, table := range []string{"adm_statuses", "op_statuses", "priorities", "appointment_statuses"} {
			q := fmt.Sprintf("SELECT setval(pg_get_serial_sequence('%[1]s', 'id'), (SELECT MAX(id) FROM %[1]s))", table)
			if err := tx.Exec(q).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
