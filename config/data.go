package config

import "github.com/spf13/viper"

// Data holds the data layer configuration.
type Data struct {
	Database *Database
	Redis    *Redis
}

// Database holds the MongoDB connection configuration.
type Database struct {
	URI  string
	Name string
}

// Redis holds the optional redis cache configuration.
// An empty Addr disables caching.
type Redis struct {
	Addr     string
	Password string
	DB       int
}

func getDataConfig(v *viper.Viper) *Data {
	return &Data{
		Database: &Database{
			URI:  v.GetString("data.database.uri"),
			Name: v.GetString("data.database.name"),
		},
		Redis: &Redis{
			Addr:     v.GetString("data.redis.addr"),
			Password: v.GetString("data.redis.password"),
			DB:       v.GetInt("data.redis.db"),
		},
	}
}
