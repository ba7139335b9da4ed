package store

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// lookupRef resolves a stored identifier into the referenced document. The
// reference lands under `as` as a single embedded document, or is absent when
// the identifier no longer resolves.
func lookupRef(from, localField, as string) mongo.Pipeline {
	return mongo.Pipeline{
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         from,
			"localField":   localField,
			"foreignField": "_id",
			"as":           as,
		}}},
		bson.D{{Key: "$unwind", Value: bson.M{
			"path":                       "$" + as,
			"preserveNullAndEmptyArrays": true,
		}}},
	}
}

// projectUserRef trims a populated user document down to the name+email
// projection the API exposes. When the lookup resolved nothing the field is
// removed entirely rather than left as an empty projection.
func projectUserRef(field string) bson.D {
	ref := "$" + field
	return bson.D{{Key: "$addFields", Value: bson.M{
		field: bson.M{"$cond": bson.M{
			"if": bson.M{"$gt": bson.A{ref, nil}},
			"then": bson.M{
				"name":  ref + ".name",
				"email": ref + ".email",
			},
			"else": "$$REMOVE",
		}},
	}}}
}

func matchStage(query bson.M) bson.D {
	return bson.D{{Key: "$match", Value: query}}
}

func sortByNewest() bson.D {
	return bson.D{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}}}}
}
