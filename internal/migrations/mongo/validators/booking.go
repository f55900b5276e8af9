package validators

import "go.mongodb.org/mongo-driver/bson"

var BookingValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"tracking_code",
			"session_token",
			"departure_city",
			"destination_city",
			"departure_date",
			"departure_time",
			"passengers",
			"payment_status",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"tracking_code": bson.M{
				"bsonType":  "string",
				"minLength": 8,
				"maxLength": 8,
				"pattern":   "^[0-9A-F]{8}$",
			},

			"session_token": bson.M{
				"bsonType": "string",
			},

			"departure_city": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 60,
			},

			"destination_city": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 60,
			},

			"departure_date": bson.M{
				"bsonType": "date",
			},

			"departure_time": bson.M{
				"bsonType": "string",
			},

			"passengers": bson.M{
				"bsonType": "int",
				"minimum":  1,
				"maximum":  10,
			},

			"selected_seats": bson.M{
				"bsonType": "array",
				"items": bson.M{
					"bsonType": "string",
				},
			},

			"total_amount": bson.M{
				"bsonType": []string{"double", "int", "long", "decimal"},
				"minimum":  0,
			},

			"payment_status": bson.M{
				"bsonType": "string",
				"enum": []string{
					"Pending",
					"Processing",
					"Paid",
					"Cancelled",
				},
			},

			"customer_name": bson.M{
				"bsonType": "string",
			},

			"customer_phone": bson.M{
				"bsonType": "string",
				"pattern":  "^[0-9]{10}$",
			},

			"customer_email": bson.M{
				"bsonType": "string",
			},

			"proof_url": bson.M{
				"bsonType": "string",
			},

			"proof_asset_id": bson.M{
				"bsonType": "string",
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
