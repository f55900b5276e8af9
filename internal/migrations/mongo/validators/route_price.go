package validators

import "go.mongodb.org/mongo-driver/bson"

var RoutePriceValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"route_id",
			"departure_time",
			"base_price_upper",
			"base_price_lower",
			"surge_multiplier",
			"effective_date",
			"expiry_date",
			"is_active",
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

			"base_price_upper": bson.M{
				"bsonType": []string{"double", "int", "long", "decimal"},
				"minimum":  0,
			},

			"base_price_lower": bson.M{
				"bsonType": []string{"double", "int", "long", "decimal"},
				"minimum":  0,
			},

			"surge_multiplier": bson.M{
				"bsonType": []string{"double", "int", "long", "decimal"},
				"minimum":  0,
			},

			"effective_date": bson.M{
				"bsonType": "date",
			},

			"expiry_date": bson.M{
				"bsonType": "date",
			},

			"is_active": bson.M{
				"bsonType": "bool",
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
