package models

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NormalizeID svodi ID koji može stići u mešovitim reprezentacijama
// (ObjectID, hex string, populiran dokument sa _id poljem) na kanonski
// primitive.ObjectID. Koristi se pre svakog poređenja ili grupisanja.
func NormalizeID(value interface{}) (primitive.ObjectID, error) {
	switch v := value.(type) {
	case primitive.ObjectID:
		return v, nil
	case *primitive.ObjectID:
		if v == nil {
			return primitive.NilObjectID, fmt.Errorf("nil object id reference")
		}
		return *v, nil
	case string:
		id, err := primitive.ObjectIDFromHex(v)
		if err != nil {
			return primitive.NilObjectID, fmt.Errorf("invalid id format: %v", err)
		}
		return id, nil
	case bson.M:
		raw, ok := v["_id"]
		if !ok {
			return primitive.NilObjectID, fmt.Errorf("document has no _id field")
		}
		return NormalizeID(raw)
	default:
		return primitive.NilObjectID, fmt.Errorf("unsupported id type %T", value)
	}
}
