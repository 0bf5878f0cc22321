package main

import (
	"Drive/database"
	"Drive/internal/config"
	"gorm.io/gorm"
)

const configurationFile = "drive.yaml"

func Provider() (*config.Configuration, error) {
	return config.LoadConfiguration(configurationFile)
}

func DatabaseProvider(configuration *config.Configuration) (*gorm.DB, func(), error) {
	db, err := database.SetupDatabase(configuration)
	if err != nil {
		return nil, nil, err
	}
	return db, func() { database.CloseDatabase(db) }, nil
}
