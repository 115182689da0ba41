// redact предоставляет утилиты безопасного редактирования чувствительных
// данных для логов (ключи API, токены). Цель — исключить утечки секретов,
// сохранив при этом полезный для отладки контекст (хост, путь, прочие параметры).
package redact

import (
	"net/url"
	"strings"
)

// sensitiveParams — имена query-параметров, значения которых не должны попадать в логи.
// Сравнение без учёта регистра.
var sensitiveParams = []string{"apikey", "api_key", "key", "token", "access_token"}

// URL маскирует значения чувствительных query-параметров.
//
// Правила:
//   - неразбираемая строка возвращается как "***";
//   - значения параметров из sensitiveParams заменяются на Token();
//   - остальные части URL (схема, хост, путь, прочие параметры) сохраняются.
//
// Примеры:
//
//	"https://api.example.com/x?apiKey=abc&type=snack" -> "https://api.example.com/x?apiKey=%5BREDACTED_TOKEN%5D&type=snack"
//	"::bad::"                                          -> "***"
func URL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "***"
	}

	q := u.Query()
	changed := false
	for k := range q {
		if isSensitive(k) {
			q.Set(k, Token())
			changed = true
		}
	}

	if changed {
		u.RawQuery = q.Encode()
	}

	return u.String()
}

func isSensitive(name string) bool {
	for _, p := range sensitiveParams {
		if strings.EqualFold(name, p) {
			return true
		}
	}

	return false
}

// Token возвращает литерал-заглушку для токена в логах.
func Token() string { return "[REDACTED_TOKEN]" }
