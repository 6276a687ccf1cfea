// Command validate provides a small CLI that validates room rule set JSON
// files in a rules directory. It checks:
//   - JSON structure and required fields
//   - Positive board dimensions and a spawn point inside the board
//   - Bone budget against the number of eligible cells (board minus the
//     bone-free zone around the spawn)
//
// Valid files also get a short informational summary (dimensions, bone
// density, eligible cells).
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/darling/digsite/game/config"
	"github.com/darling/digsite/geometry"
)

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

// eligibleCells returns how many cells can hold a bone given the spawn's
// bone-free zone.
func eligibleCells(rules *config.Rules) int {
	bounds := rules.BoardSize.Area()
	zone := bounds.Intersect(geometry.AroundPoint(rules.Spawn, 1))
	return rules.BoardSize.Count() - zone.Size().Count()
}

// validateRules loads and validates a single rule set JSON file.
func validateRules(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Failed to read file: %v", err))
		return result
	}

	var rules config.Rules
	if err := json.Unmarshal(data, &rules); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Invalid JSON: %v", err))
		return result
	}

	if err := config.Validate(&rules); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, err.Error())
		return result
	}

	// Add informational data
	eligible := eligibleCells(&rules)
	density := float64(rules.Bones) / float64(rules.BoardSize.Count()) * 100
	result.Errors = append(result.Errors, fmt.Sprintf("✓ Name: %s", rules.Name))
	result.Errors = append(result.Errors, fmt.Sprintf("✓ Board: %s", rules.BoardSize))
	result.Errors = append(result.Errors, fmt.Sprintf("✓ Spawn: %s", rules.Spawn))
	result.Errors = append(result.Errors, fmt.Sprintf("✓ Bones: %d (%.1f%% density)", rules.Bones, density))
	result.Errors = append(result.Errors, fmt.Sprintf("✓ Eligible cells: %d", eligible))

	return result
}

// main scans the rules directory for *.json files and validates each one,
// printing a concise report and exiting with non-zero status if any are
// invalid.
func main() {
	rulesDir := "../rules"
	if len(os.Args) > 1 {
		rulesDir = os.Args[1]
	}

	files, err := filepath.Glob(filepath.Join(rulesDir, "*.json"))
	if err != nil {
		fmt.Printf("Error finding rule files: %v\n", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Printf("No rule files found in %s\n", rulesDir)
		os.Exit(1)
	}

	allValid := true
	for _, file := range files {
		result := validateRules(file)

		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, info := range result.Errors {
				fmt.Println("  " + info)
			}
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				if !strings.HasPrefix(err, "✓") {
					fmt.Println("  ❌ " + err)
				}
			}
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ All rule sets are valid!")
	} else {
		fmt.Println("❌ Some rule sets have errors")
		os.Exit(1)
	}
}
