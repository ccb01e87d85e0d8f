// Package cookie собирает в одном месте разбор заголовка Cookie и
// сериализацию Set-Cookie. Хендлеры и middleware не должны формировать
// строки кук вручную.
package cookie

import (
	"net/http"
	"net/url"
	"strings"
)

// Имена кук сессии
const (
	// SessionName непрозрачный идентификатор сессии (HttpOnly)
	SessionName = "sid"
	// ProfileName url-кодированный JSON {"email","name"}, доступный скриптам страницы
	ProfileName = "u"
)

// Attributes описывает атрибуты выдаваемой куки.
// MaxAge в секундах; отрицательное значение означает удаление (Max-Age=0).
type Attributes struct {
	HTTPOnly bool
	Secure   bool
	SameSite http.SameSite
	Path     string
	MaxAge   int
}

// Serialize возвращает значение заголовка Set-Cookie.
// Значение не экранируется: вызывающий код сам решает, нужно ли url-кодирование.
func Serialize(name, value string, attrs Attributes) string {
	path := attrs.Path
	if path == "" {
		path = "/"
	}
	c := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		MaxAge:   attrs.MaxAge,
		HttpOnly: attrs.HTTPOnly,
		Secure:   attrs.Secure,
		SameSite: attrs.SameSite,
	}
	return c.String()
}

// Append добавляет куку отдельной записью Set-Cookie.
// Несколько кук никогда не склеиваются в одну строку заголовка.
func Append(h http.Header, name, value string, attrs Attributes) {
	h.Add("Set-Cookie", Serialize(name, value, attrs))
}

// Clear добавляет запись, удаляющую куку на клиенте (Max-Age=0).
func Clear(h http.Header, name string, attrs Attributes) {
	attrs.MaxAge = -1
	Append(h, name, "deleted", attrs)
}

// Parse разбирает значение заголовка Cookie в map имя -> значение.
// Пустой заголовок дает пустую map. Значения декодируются как
// url-сегменты ('+' остается плюсом);
// если декодирование не удалось, берется исходная строка.
// При повторе имени побеждает первое вхождение.
func Parse(header string) map[string]string {
	out := make(map[string]string)
	if strings.TrimSpace(header) == "" {
		return out
	}
	for _, part := range strings.Split(header, ";") {
		i := strings.Index(part, "=")
		if i <= 0 {
			continue
		}
		name := strings.TrimSpace(part[:i])
		if name == "" {
			continue
		}
		if _, seen := out[name]; seen {
			continue
		}
		raw := strings.TrimSpace(part[i+1:])
		raw = strings.Trim(raw, `"`)
		if v, err := url.PathUnescape(raw); err == nil {
			out[name] = v
		} else {
			out[name] = raw
		}
	}
	return out
}

// EncodeValue кодирует произвольную строку для значения куки.
func EncodeValue(v string) string {
	return url.PathEscape(v)
}

// FromRequest возвращает значение куки name из запроса.
func FromRequest(r *http.Request, name string) (string, bool) {
	v, ok := Parse(strings.Join(r.Header.Values("Cookie"), "; "))[name]
	if !ok || v == "" {
		return "", false
	}
	return v, true
}
