// Package answer renders result rows into the fixed Portuguese sentences
// returned next to the raw rows. Everything here is pure and deterministic,
// so answers stay stable and auditable.
package answer

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/fitask/fitask/internal/query"
)

const noResults = "Nenhum resultado encontrado."

// FormatCount renders e.g. "Tem 3 treinos cadastrados no sistema."
func FormatCount(label string, count int) string {
	return fmt.Sprintf(
		"Tem %d %s cadastrado%s no sistema.",
		count, pluralize(label, count), pluralSuffix(count),
	)
}

// FormatCountWithList renders the count sentence followed by a numbered
// inline list: "Tem 2 usuários cadastrados no sistema, 1. a@b.c 2. d@e.f."
// When count is negative, the number of items is used.
func FormatCountWithList(label string, items []string, count int) string {
	if count < 0 {
		count = len(items)
	}
	base := fmt.Sprintf(
		"Tem %d %s cadastrado%s no sistema",
		count, pluralize(label, count), pluralSuffix(count),
	)
	if len(items) == 0 {
		return base + "."
	}

	numbered := make([]string, 0, len(items))
	for i, item := range items {
		numbered = append(numbered, fmt.Sprintf("%d. %s", i+1, item))
	}
	return fmt.Sprintf("%s, %s.", base, strings.Join(numbered, " "))
}

// FormatHistory renders one numbered entry per workout completion event,
// with its exercises inline: "Você fez 1 treino. 1. Treino A (2024-05-01) -
// exercícios: Supino (3x10, 60kg)."
func FormatHistory(rows []query.Row) string {
	sentence := fmt.Sprintf("Você fez %d treino%s", len(rows), pluralSuffix(len(rows)))
	details := formatHistoryEntries(rows)
	if details == "" {
		return sentence + "."
	}
	return fmt.Sprintf("%s. %s", sentence, details)
}

func formatHistoryEntries(rows []query.Row) string {
	entries := make([]string, 0, len(rows))
	for i, row := range rows {
		name := stringValue(row["workout_name"])
		if name == "" {
			name = stringValue(row["name"])
		}
		if name == "" {
			name = fmt.Sprintf("Treino %d", i+1)
		}

		doneAt := dateValue(row["done_at"])
		if doneAt == "" {
			doneAt = "data desconhecida"
		}

		entry := fmt.Sprintf("%d. %s (%s)", i+1, name, doneAt)
		if exercises := formatExercises(row["exercises"]); exercises != "" {
			entry = fmt.Sprintf("%s - exercícios: %s", entry, exercises)
		}
		entries = append(entries, entry)
	}
	return strings.Join(entries, " ")
}

// formatExercises renders "Supino (3x10, 60kg), Remada" - the set/rep/weight
// summary only when all three values are present.
func formatExercises(value any) string {
	list, ok := value.([]any)
	if !ok || len(list) == 0 {
		return ""
	}

	parts := make([]string, 0, len(list))
	for _, item := range list {
		exercise, ok := item.(map[string]any)
		if !ok {
			continue
		}
		name := stringValue(exercise["name"])
		if name == "" {
			name = "Exercício"
		}

		sets, setsOk := numberValue(exercise["sets"])
		reps, repsOk := numberValue(exercise["reps"])
		weight, weightOk := numberValue(exercise["weightKg"])
		if setsOk && repsOk && weightOk {
			parts = append(parts, fmt.Sprintf(
				"%s (%sx%s, %skg)",
				name, formatNumber(sets), formatNumber(reps), formatNumber(weight),
			))
		} else {
			parts = append(parts, name)
		}
	}
	return strings.Join(parts, ", ")
}

// ForQuestion renders the free-form /ask-db answer using the same keyword
// heuristics the catalog uses: user questions list emails, exercise and
// workout questions answer with counts, anything else gets a generic
// summary with the raw data attached.
func ForQuestion(question string, rows []query.Row) string {
	normalized := query.NormalizeText(question)
	count, hasCount := CountValue(rows)

	if strings.Contains(normalized, "usuario") {
		emails := emailsFrom(rows)
		if len(emails) > 0 {
			if !hasCount {
				count = -1
			}
			return FormatCountWithList("usuário", emails, count)
		}
		if hasCount {
			return FormatCount("usuário", count)
		}
		return FormatCount("usuário", len(rows))
	}

	if strings.Contains(normalized, "exercicio") {
		if hasCount {
			return FormatCount("exercício", count)
		}
		return FormatCount("exercício", len(rows))
	}

	if strings.Contains(normalized, "treino") || strings.Contains(normalized, "workout") {
		if hasCount {
			return FormatCount("treino", count)
		}
		return FormatCount("treino", len(rows))
	}

	if len(rows) == 0 {
		return noResults
	}

	raw, err := json.Marshal(rows)
	if err != nil {
		raw = []byte("[]")
	}
	return fmt.Sprintf(
		"Consulta concluída. %d registro%s encontrado%s. Dados: %s",
		len(rows), pluralSuffix(len(rows)), pluralSuffix(len(rows)), raw,
	)
}

// CountValue extracts the `count` column of the first row, when present.
func CountValue(rows []query.Row) (int, bool) {
	if len(rows) == 0 {
		return 0, false
	}
	value, ok := rows[0]["count"]
	if !ok {
		return 0, false
	}

	switch v := value.(type) {
	case int:
		return v, true
	case int16:
		return int(v), true
	case int32:
		return int(v), true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

// HasEmails reports whether any row carries a non-empty email column.
func HasEmails(rows []query.Row) bool {
	return len(emailsFrom(rows)) > 0
}

func emailsFrom(rows []query.Row) []string {
	emails := make([]string, 0, len(rows))
	for _, row := range rows {
		if email := strings.TrimSpace(stringValue(row["email"])); email != "" {
			emails = append(emails, email)
		}
	}
	return emails
}

func pluralize(label string, count int) string {
	if count == 1 {
		return label
	}
	return label + "s"
}

func pluralSuffix(count int) string {
	if count == 1 {
		return ""
	}
	return "s"
}

func stringValue(value any) string {
	s, ok := value.(string)
	if !ok {
		return ""
	}
	return s
}

func dateValue(value any) string {
	switch v := value.(type) {
	case time.Time:
		return v.Format("2006-01-02")
	case string:
		if len(v) >= 10 {
			return v[:10]
		}
		return v
	default:
		return ""
	}
}

func numberValue(value any) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	default:
		return 0, false
	}
}

func formatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}
