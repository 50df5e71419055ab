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

// ExtractBool safely extracts a bool from a DynamoDB attribute map
func ExtractBool(item map[string]types.AttributeValue, field string) bool {
	if attr, ok := item[field]; ok {
		if v, ok := attr.(*types.AttributeValueMemberBOOL); ok {
			return v.Value
		}
	}
	return false
}

// ExtractStringList safely extracts a list of strings from a DynamoDB
// attribute map, skipping non-string members
func ExtractStringList(item map[string]types.AttributeValue, field string) []string {
	attr, ok := item[field]
	if !ok {
		return nil
	}
	list, ok := attr.(*types.AttributeValueMemberL)
	if !ok {
		return nil
	}

	out := make([]string, 0, len(list.Value))
	for _, member := range list.Value {
		if v, ok := member.(*types.AttributeValueMemberS); ok {
			out = append(out, v.Value)
		}
	}
	return out
}
