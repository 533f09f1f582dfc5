package repositories

import (
	"encoding/json"
	"fmt"
	"strings"

	"os-tracker/internal/entities"
)

// Чек-лист хранится в orders.checklist как JSON-массив [{text, completed}].

func encodeChecklist(items []entities.ChecklistItem) (string, error) {
	if items == nil {
		items = []entities.ChecklistItem{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("ошибка сериализации чек-листа: %w", err)
	}
	return string(raw), nil
}

// decodeChecklist принимает и старый формат: обычный текст, по пункту на строку.
func decodeChecklist(raw string) []entities.ChecklistItem {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return []entities.ChecklistItem{}
	}

	var items []entities.ChecklistItem
	if err := json.Unmarshal([]byte(trimmed), &items); err == nil {
		if items == nil {
			items = []entities.ChecklistItem{}
		}
		return items
	}

	items = []entities.ChecklistItem{}
	for _, line := range strings.Split(trimmed, "\n") {
		if text := strings.TrimSpace(line); text != "" {
			items = append(items, entities.ChecklistItem{Text: text})
		}
	}
	return items
}
