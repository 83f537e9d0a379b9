package service

import (
	"fmt"
	"strings"

	"github.com/cardmart-next/internal/constants"
	"github.com/cardmart-next/internal/models"
)

const (
	cardLevelMin         = 0
	cardLevelMax         = 13
	cardPendulumScaleMin = 0
	cardPendulumScaleMax = 13
	cardLinkValueMin     = 1
	cardLinkValueMax     = 8
)

// cardField 卡牌上随类别变化的字段
type cardField struct {
	name    string
	present func(card *models.YugiohCard) bool
}

var (
	cardFieldAttribute = cardField{"attribute", func(c *models.YugiohCard) bool { return strings.TrimSpace(c.Attribute) != "" }}
	cardFieldLevel     = cardField{"level", func(c *models.YugiohCard) bool { return c.Level != nil }}
	cardFieldAtk       = cardField{"atk", func(c *models.YugiohCard) bool { return c.Atk != nil }}
	cardFieldDef       = cardField{"def", func(c *models.YugiohCard) bool { return c.Def != nil }}
	cardFieldScale     = cardField{"pendulumScale", func(c *models.YugiohCard) bool { return c.PendulumScale != nil }}
	cardFieldLinkValue = cardField{"linkValue", func(c *models.YugiohCard) bool { return c.LinkValue != nil }}
	cardFieldArrows    = cardField{"linkArrows", func(c *models.YugiohCard) bool { return len(c.LinkArrows) > 0 }}
	cardFieldType      = cardField{"typeId", func(c *models.YugiohCard) bool { return c.TypeID != nil }}
)

type cardVariantRule struct {
	required  []cardField
	forbidden []cardField
}

var cardVariantRules = map[string]cardVariantRule{
	constants.CardKindMonster: {
		required:  []cardField{cardFieldAttribute, cardFieldLevel, cardFieldAtk, cardFieldDef},
		forbidden: []cardField{cardFieldScale, cardFieldLinkValue, cardFieldArrows},
	},
	constants.CardKindMonsterPendulum: {
		required:  []cardField{cardFieldAttribute, cardFieldLevel, cardFieldAtk, cardFieldDef, cardFieldScale},
		forbidden: []cardField{cardFieldLinkValue, cardFieldArrows},
	},
	constants.CardKindMonsterLink: {
		required:  []cardField{cardFieldAttribute, cardFieldAtk, cardFieldLinkValue, cardFieldArrows},
		forbidden: []cardField{cardFieldLevel, cardFieldDef, cardFieldScale},
	},
	constants.CardKindNonMonster: {
		forbidden: []cardField{cardFieldAttribute, cardFieldLevel, cardFieldAtk, cardFieldDef, cardFieldScale, cardFieldLinkValue, cardFieldArrows, cardFieldType},
	},
}

// ValidateCardVariant 按卡牌类别校验字段形态，返回全部字段错误
func ValidateCardVariant(kind string, card *models.YugiohCard) []FieldError {
	rule, ok := cardVariantRules[kind]
	if !ok {
		return []FieldError{{Field: "categoryId", Message: fmt.Sprintf("unknown card kind %q", kind)}}
	}
	if card == nil {
		return []FieldError{{Field: "card", Message: "is required"}}
	}

	var fields []FieldError
	for _, f := range rule.required {
		if !f.present(card) {
			fields = append(fields, FieldError{Field: f.name, Message: "is required for " + kind})
		}
	}
	for _, f := range rule.forbidden {
		if f.present(card) {
			fields = append(fields, FieldError{Field: f.name, Message: "is not allowed for " + kind})
		}
	}
	return append(fields, validateCardValues(card)...)
}

// validateCardValues 校验已填写字段的取值范围
func validateCardValues(card *models.YugiohCard) []FieldError {
	var fields []FieldError
	if attr := strings.TrimSpace(card.Attribute); attr != "" && !containsString(constants.CardAttributes, attr) {
		fields = append(fields, FieldError{Field: "attribute", Message: "must be one of " + strings.Join(constants.CardAttributes, ", ")})
	}
	if card.Level != nil && (*card.Level < cardLevelMin || *card.Level > cardLevelMax) {
		fields = append(fields, FieldError{Field: "level", Message: fmt.Sprintf("must be between %d and %d", cardLevelMin, cardLevelMax)})
	}
	if card.PendulumScale != nil && (*card.PendulumScale < cardPendulumScaleMin || *card.PendulumScale > cardPendulumScaleMax) {
		fields = append(fields, FieldError{Field: "pendulumScale", Message: fmt.Sprintf("must be between %d and %d", cardPendulumScaleMin, cardPendulumScaleMax)})
	}
	if card.LinkValue != nil && (*card.LinkValue < cardLinkValueMin || *card.LinkValue > cardLinkValueMax) {
		fields = append(fields, FieldError{Field: "linkValue", Message: fmt.Sprintf("must be between %d and %d", cardLinkValueMin, cardLinkValueMax)})
	}
	if card.Atk != nil && *card.Atk < 0 {
		fields = append(fields, FieldError{Field: "atk", Message: "must not be negative"})
	}
	if card.Def != nil && *card.Def < 0 {
		fields = append(fields, FieldError{Field: "def", Message: "must not be negative"})
	}
	if len(card.LinkArrows) > 0 {
		seen := make(map[string]struct{}, len(card.LinkArrows))
		for i, arrow := range card.LinkArrows {
			path := fmt.Sprintf("linkArrows[%d]", i)
			if !containsString(constants.LinkArrows, arrow) {
				fields = append(fields, FieldError{Field: path, Message: "is not a valid direction"})
				continue
			}
			if _, dup := seen[arrow]; dup {
				fields = append(fields, FieldError{Field: path, Message: "is duplicated"})
				continue
			}
			seen[arrow] = struct{}{}
		}
		if card.LinkValue != nil && len(card.LinkArrows) != *card.LinkValue {
			fields = append(fields, FieldError{Field: "linkArrows", Message: "count must equal linkValue"})
		}
	}
	return fields
}

func containsString(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
