package validators

import "go.mongodb.org/mongo-driver/bson"

// ReservationValidator also rejects documents whose start is not strictly
// before their end.
var ReservationValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"room_id", "tenant_id", "title", "start_time", "end_time", "created_at"},
		"additionalProperties": true,
		"properties": bson.M{
			"_id": bson.M{"bsonType": "objectId"},
			"room_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},
			"tenant_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},
			"title": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 200,
			},
			"start_time": bson.M{"bsonType": "date"},
			"end_time":   bson.M{"bsonType": "date"},
			"created_at": bson.M{"bsonType": "date"},
			"updated_at": bson.M{"bsonType": "date"},
		},
	},
	"$expr": bson.M{
		"$lt": bson.A{"$start_time", "$end_time"},
	},
}

// RoomFenceValidator covers the per-room documents bookings write to inside
// their transaction.
var RoomFenceValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{"seq"},
		"properties": bson.M{
			"_id":        bson.M{"bsonType": "string"},
			"seq":        bson.M{"bsonType": []string{"int", "long"}},
			"claimed_at": bson.M{"bsonType": "date"},
		},
	},
}
