package utils

import (
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// ExtractString safely extracts a string from a DynamoDB attribute map
func ExtractString(item map[string]types.AttributeValue, field string) string {
	if attr, ok := item[field]; ok {
		if v, ok := attr.(*types.AttributeValueMemberS); ok {
			return v.Value
		}
	}
	return ""
}

// ExtractBool safely extracts a boolean from a DynamoDB attribute map
func ExtractBool(item map[string]types.AttributeValue, field string) bool {
	if attr, ok := item[field]; ok {
		if v, ok := attr.(*types.AttributeValueMemberBOOL); ok {
			return v.Value
		}
	}
	return false
}

// ExtractFirstPhoto extracts the first photo URL from a list attribute
func ExtractFirstPhoto(item map[string]types.AttributeValue, field string) string {
	if attr, ok := item[field]; ok {
		if photos, ok := attr.(*types.AttributeValueMemberL); ok && len(photos.Value) > 0 {
			if photo, ok := photos.Value[0].(*types.AttributeValueMemberS); ok {
				return photo.Value
			}
		}
	}
	return ""
}
