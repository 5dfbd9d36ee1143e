package validators

import "go.mongodb.org/mongo-driver/bson"

var RoomValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"tenant_id", "name", "capacity", "features", "created_at"},
		"additionalProperties": true,
		"properties": bson.M{
			"_id": bson.M{"bsonType": "objectId"},
			"tenant_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},
			"name": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 100,
			},
			"capacity": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  1,
				"maximum":  10000,
			},
			"features": bson.M{
				"bsonType": "object",
				"properties": bson.M{
					"has_projector":         bson.M{"bsonType": "bool"},
					"has_video_conference":  bson.M{"bsonType": "bool"},
					"has_whiteboard":        bson.M{"bsonType": "bool"},
					"has_phone":             bson.M{"bsonType": "bool"},
					"wheelchair_accessible": bson.M{"bsonType": "bool"},
					"extra":                 bson.M{"bsonType": "object"},
				},
			},
			"created_at": bson.M{"bsonType": "date"},
			"updated_at": bson.M{"bsonType": "date"},
		},
	},
}
