package mongo

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	repo "emaktab-snapshot/internal/account/repository"
)

// buildGetOneFilter builds the filter document for GetOneAccount.
// All non-empty fields are combined with AND; NameOrLogin expands to $or.
func (r *implRepository) buildGetOneFilter(opt repo.GetOneAccountOptions) (bson.D, error) {
	var filter bson.D

	if opt.ID != "" {
		oid, err := primitive.ObjectIDFromHex(opt.ID)
		if err != nil {
			// Unparseable IDs match nothing rather than everything.
			oid = primitive.NilObjectID
		}
		filter = append(filter, bson.E{Key: "_id", Value: oid})
	}
	if opt.Login != "" {
		filter = append(filter, bson.E{Key: "login", Value: opt.Login})
	}
	if opt.NameOrLogin != "" {
		filter = append(filter, bson.E{Key: "$or", Value: bson.A{
			bson.D{{Key: "name", Value: opt.NameOrLogin}},
			bson.D{{Key: "login", Value: opt.NameOrLogin}},
		}})
	}

	if len(filter) == 0 {
		return nil, repo.ErrEmptyFilter
	}
	return filter, nil
}

// getOneOptions picks the oldest match, as the SQLite store does.
func getOneOptions() *options.FindOneOptions {
	return options.FindOne().SetSort(sortSpec(repo.OrderByCreatedAsc))
}

func sortSpec(orderBy string) bson.D {
	switch orderBy {
	case repo.OrderByCreatedAsc:
		return bson.D{{Key: "createdAt", Value: 1}}
	default:
		return bson.D{{Key: "name", Value: 1}, {Key: "createdAt", Value: 1}}
	}
}
