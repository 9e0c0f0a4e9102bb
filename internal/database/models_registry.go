package database

import "docmanager/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Document{},
		&models.DocumentRequest{},
		&models.DocumentRequestUnit{},
		&models.AuthorizationRequest{},
		&models.AuthorizationRequestUnit{},
		&models.Notification{},
	}
}
