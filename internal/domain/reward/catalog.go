package reward

import (
	"github.com/questx-lab/stakeboard/internal/entity"
)

type MatchKind int

const (
	MatchExact MatchKind = iota + 1
	MatchKeyWildcard
	MatchCatchAll
)

func (k MatchKind) String() string {
	switch k {
	case MatchExact:
		return "exact"
	case MatchKeyWildcard:
		return "key_wildcard"
	case MatchCatchAll:
		return "catch_all"
	}

	return "unknown"
}

type Match struct {
	Rule    *entity.RewardRule
	Kind    MatchKind
	TokenID string

	// Attribute is empty for catch-all matches.
	Attribute entity.NFTAttribute
}

type attributeKey struct {
	key   string
	value string
}

// CollectionCatalog indexes the reward rules of one collection for matching.
type CollectionCatalog struct {
	Collection entity.Collection

	exact    map[attributeKey]*entity.RewardRule
	wildcard map[string]*entity.RewardRule
	catchAll *entity.RewardRule

	// Rules which can never match, such as a value without a key.
	Invalid []entity.RewardRule
}

// NewCollectionCatalog indexes the rules. When two rules share the same key
// and value, the first one wins.
func NewCollectionCatalog(collection entity.Collection, rules []entity.RewardRule) *CollectionCatalog {
	c := &CollectionCatalog{
		Collection: collection,
		exact:      map[attributeKey]*entity.RewardRule{},
		wildcard:   map[string]*entity.RewardRule{},
	}

	for i := range rules {
		rule := &rules[i]
		switch {
		case !rule.AttributeKey.Valid && rule.AttributeValue.Valid:
			c.Invalid = append(c.Invalid, *rule)

		case !rule.AttributeKey.Valid:
			if c.catchAll == nil {
				c.catchAll = rule
			}

		case !rule.AttributeValue.Valid:
			if _, ok := c.wildcard[rule.AttributeKey.String]; !ok {
				c.wildcard[rule.AttributeKey.String] = rule
			}

		default:
			k := attributeKey{key: rule.AttributeKey.String, value: rule.AttributeValue.String}
			if _, ok := c.exact[k]; !ok {
				c.exact[k] = rule
			}
		}
	}

	return c
}

func (c *CollectionCatalog) CatchAll() *entity.RewardRule {
	return c.catchAll
}

// Match returns the rules the token earns from. Each attribute contributes at
// most one rule: the exact key and value rule if any, otherwise the rule for
// any value of the key. The catch-all rule contributes once per token,
// following the collection's catch-all policy.
func (c *CollectionCatalog) Match(nft entity.NFT) []Match {
	var matches []Match
	for _, attr := range nft.Attributes {
		if rule, ok := c.exact[attributeKey{key: attr.Key, value: attr.Value}]; ok {
			matches = append(matches, Match{Rule: rule, Kind: MatchExact, TokenID: nft.TokenID, Attribute: attr})
			continue
		}

		if rule, ok := c.wildcard[attr.Key]; ok {
			matches = append(matches, Match{Rule: rule, Kind: MatchKeyWildcard, TokenID: nft.TokenID, Attribute: attr})
		}
	}

	if c.catchAll == nil {
		return matches
	}

	if c.Collection.CatchAllPolicy == entity.CatchAllExclusive && len(matches) > 0 {
		return matches
	}

	return append(matches, Match{Rule: c.catchAll, Kind: MatchCatchAll, TokenID: nft.TokenID})
}

// ProjectCatalog is the reward catalog of every collection of a project.
type ProjectCatalog struct {
	Project     entity.Project
	Collections []*CollectionCatalog
}

func (p *ProjectCatalog) CollectionIDs() []string {
	ids := make([]string, 0, len(p.Collections))
	for _, c := range p.Collections {
		ids = append(ids, c.Collection.ID)
	}

	return ids
}
