package main

import (
	"strings"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres"
	"github.com/spf13/viper"

	"github.com/mizan/crimewatch-api/schema"
)

func init() {
	viper.AutomaticEnv()
	viper.SetEnvPrefix("crimewatch")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.SetDefault("record.backend", "mongo")
	viper.SetDefault("record.collection", schema.CrimeReportCollection)
}

func main() {
	db, err := gorm.Open("postgres", viper.GetString("orm.conn"))
	if err != nil {
		panic(err)
	}
	defer db.Close()

	if err := db.Exec(`CREATE SCHEMA IF NOT EXISTS crimewatch`).Error; err != nil {
		panic(err)
	}

	if err := db.Exec("SET search_path TO crimewatch").Error; err != nil {
		panic(err)
	}

	if err := db.AutoMigrate(
		&schema.Account{},
		&schema.Session{},
	).Error; err != nil {
		panic(err)
	}

	if err := db.Model(schema.Session{}).AddIndex("sessions_account_expires", "account_id", "expires_at").Error; err != nil {
		panic(err)
	}

	// appwrite collections are managed in the appwrite console
	if viper.GetString("record.backend") == "mongo" {
		schema.NewMongoDBIndexer(viper.GetString("mongo.conn"), viper.GetString("mongo.database")).
			IndexAll(viper.GetString("record.collection"))
	}
}
