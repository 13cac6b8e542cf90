package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"campstation/internal/app/dto"
	domainpricing "campstation/internal/domain/pricing"
)

const ruleCollection = "site_pricing"

// RuleRepository reads rules maintained by the rule authoring service.
// Documents share the owner API shape (dto.SiteRule).
type RuleRepository struct {
	col *mongo.Collection
}

func NewRuleRepository(db *mongo.Database) *RuleRepository {
	return &RuleRepository{col: db.Collection(ruleCollection)}
}

func (r *RuleRepository) BySite(ctx context.Context, siteID int64) ([]domainpricing.Rule, error) {
	return r.find(ctx, bson.M{"site_id": siteID})
}

// ActiveBySite treats a missing is_active as active, matching the decoder default.
func (r *RuleRepository) ActiveBySite(ctx context.Context, siteID int64) ([]domainpricing.Rule, error) {
	return r.find(ctx, bson.M{"site_id": siteID, "is_active": bson.M{"$ne": false}})
}

func (r *RuleRepository) find(ctx context.Context, filter bson.M) ([]domainpricing.Rule, error) {
	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("mongo: find rules: %w", err)
	}
	defer cur.Close(ctx)
	var rules []domainpricing.Rule
	for cur.Next(ctx) {
		var doc dto.SiteRule
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("mongo: decode rule: %w", err)
		}
		rule, err := doc.ToDomain()
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("mongo: iterate rules: %w", err)
	}
	return rules, nil
}

// EnsureIndexes creates the lookup index used by site queries.
func (r *RuleRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "site_id", Value: 1}, {Key: "priority", Value: -1}},
	})
	return err
}

var _ domainpricing.RuleRepository = (*RuleRepository)(nil)
