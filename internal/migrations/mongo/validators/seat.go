package validators

import "go.mongodb.org/mongo-driver/bson"

var SeatValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"route_id",
			"departure_time",
			"seat_id",
			"deck",
			"row",
			"column",
			"base_price",
			"current_price",
			"status",
			"is_blocked",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"route_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"departure_time": bson.M{
				"bsonType": "string",
			},

			"seat_id": bson.M{
				"bsonType":  "string",
				"minLength": 4,
				"maxLength": 8,
			},

			"deck": bson.M{
				"bsonType": "string",
				"enum":     []string{"Upper", "Lower"},
			},

			"row": bson.M{
				"bsonType": "int",
				"minimum":  1,
			},

			"column": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 1,
			},

			"base_price": bson.M{
				"bsonType": []string{"double", "int", "long", "decimal"},
				"minimum":  0,
			},

			"current_price": bson.M{
				"bsonType": []string{"double", "int", "long", "decimal"},
				"minimum":  0,
			},

			"status": bson.M{
				"bsonType": "string",
				"enum": []string{
					"available",
					"occupied",
					"blocked",
					"maintenance",
				},
			},

			"is_blocked": bson.M{
				"bsonType": "bool",
			},

			"blocked_reason": bson.M{
				"bsonType": "string",
			},

			"blocked_until": bson.M{
				"bsonType": "date",
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
