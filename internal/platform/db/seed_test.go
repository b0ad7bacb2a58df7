package db

import (
	"testing"

	"hreval/internal/domain/auth"
	"hreval/internal/domain/evaluation"
)

func TestDefaultWeightsAreValid(t *testing.T) {
	seen := map[string]bool{}
	for _, row := range DefaultWeights {
		if err := row.Weights.Validate(); err != nil {
			t.Fatalf("grade %s: %v", row.Grade, err)
		}
		seen[row.Grade] = true
	}
	if !seen[evaluation.DefaultWeightGrade] {
		t.Fatal("expected a fallback weight row")
	}
}

func TestDefaultGrowthCoefficientsPositive(t *testing.T) {
	for _, c := range DefaultGrowthCategories {
		if c.Coefficient <= 0 {
			t.Fatalf("category %s has coefficient %v", c.Name, c.Coefficient)
		}
	}
}

func TestRolePermissionsAreSeeded(t *testing.T) {
	known := map[string]bool{}
	for _, p := range auth.DefaultPermissions {
		known[p] = true
	}
	for role, perms := range auth.RolePermissions {
		for _, p := range perms {
			if !known[p] {
				t.Fatalf("role %s references unseeded permission %s", role, p)
			}
		}
	}
}
