package utils

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

func TestExtractString(t *testing.T) {
	item := map[string]types.AttributeValue{
		"name": &types.AttributeValueMemberS{Value: "alice"},
		"age":  &types.AttributeValueMemberN{Value: "30"},
	}

	if got := ExtractString(item, "name"); got != "alice" {
		t.Fatalf("ExtractString(name) = %q", got)
	}
	if got := ExtractString(item, "age"); got != "" {
		t.Fatalf("non-string attribute must yield empty, got %q", got)
	}
	if got := ExtractString(item, "missing"); got != "" {
		t.Fatalf("missing attribute must yield empty, got %q", got)
	}
}

func TestExtractBool(t *testing.T) {
	item := map[string]types.AttributeValue{
		"enabled": &types.AttributeValueMemberBOOL{Value: true},
	}

	if !ExtractBool(item, "enabled") {
		t.Fatal("ExtractBool(enabled) = false")
	}
	if ExtractBool(item, "missing") {
		t.Fatal("missing attribute must yield false")
	}
}

func TestExtractStringList(t *testing.T) {
	item := map[string]types.AttributeValue{
		"members": &types.AttributeValueMemberL{Value: []types.AttributeValue{
			&types.AttributeValueMemberS{Value: "alice"},
			&types.AttributeValueMemberN{Value: "42"},
			&types.AttributeValueMemberS{Value: "bob"},
		}},
	}

	got := ExtractStringList(item, "members")
	if len(got) != 2 || got[0] != "alice" || got[1] != "bob" {
		t.Fatalf("ExtractStringList = %v", got)
	}
	if ExtractStringList(item, "missing") != nil {
		t.Fatal("missing attribute must yield nil")
	}
}
