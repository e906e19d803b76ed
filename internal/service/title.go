package service

import (
	"strings"
)

// maxTitleLength - потолок длины заголовка (колонка title в БД).
const maxTitleLength = 200

// ParseTitle извлекает заголовок из первой строки сгенерированного текста
// по соглашению о маркерах: **Заголовок**. Возвращает пустую строку,
// если маркер не найден - тогда вызывающий применяет FallbackTitle.
func ParseTitle(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "**") {
		return ""
	}

	rest := trimmed[2:]
	end := strings.Index(rest, "**")
	if end <= 0 {
		return ""
	}

	title := strings.TrimSpace(rest[:end])
	if title == "" || strings.ContainsAny(title, "\n") {
		return ""
	}
	if len(title) > maxTitleLength {
		return ""
	}
	return title
}

// FallbackTitle составляет заголовок из темы и первых двух персонажей,
// когда из текста заголовок извлечь не удалось.
func FallbackTitle(theme string, characters []string) string {
	named := make([]string, 0, 2)
	for _, c := range characters {
		if strings.TrimSpace(c) != "" {
			named = append(named, strings.TrimSpace(c))
		}
		if len(named) == 2 {
			break
		}
	}

	companions := "friends"
	if len(named) > 0 {
		companions = strings.Join(named, ", ")
	}

	return capitalize(strings.TrimSpace(theme)) + " Adventure with " + companions
}

// capitalize переводит первую руну строки в верхний регистр.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	return strings.ToUpper(string(runes[0])) + string(runes[1:])
}
