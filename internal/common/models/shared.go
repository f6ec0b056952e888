package models

import "time"

// LocalizedText carries the two UI languages the portal serves.
type LocalizedText struct {
	Ka string `bson:"ka" json:"ka"`
	En string `bson:"en" json:"en"`
}

// SystemLog is the record shape the async zap writer inserts into Mongo.
type SystemLog struct {
	Message      string    `bson:"message" json:"message"`
	Caller       string    `bson:"caller" json:"caller"`
	LogLevelId   int       `bson:"log_level_id" json:"log_level_id"`
	AppId        string    `bson:"app_id" json:"app_id"`
	CreatedOnUtc time.Time `bson:"created_on_utc" json:"created_on_utc"`
}
