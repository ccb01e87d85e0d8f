package cookie

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerialize_SessionCookie(t *testing.T) {
	got := Serialize("sid", "abc123", Attributes{
		HTTPOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   604800,
	})

	assert.True(t, strings.HasPrefix(got, "sid=abc123"), got)
	assert.Contains(t, got, "Path=/")
	assert.Contains(t, got, "Max-Age=604800")
	assert.Contains(t, got, "HttpOnly")
	assert.Contains(t, got, "Secure")
	assert.Contains(t, got, "SameSite=Lax")
}

func TestSerialize_ProfileCookieIsNotHTTPOnly(t *testing.T) {
	got := Serialize("u", EncodeValue(`{"email":"a@b.com","name":"Ann Lee"}`), Attributes{
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   60,
	})

	assert.NotContains(t, got, "HttpOnly")
	assert.Contains(t, got, "Path=/", "пустой Path заменяется на /")
	assert.NotContains(t, got, `"`, "JSON должен быть закодирован")
	assert.NotContains(t, got, " Lee", "пробелы в значении должны быть закодированы")
}

func TestAppend_KeepsSeparateHeaderEntries(t *testing.T) {
	h := http.Header{}
	attrs := Attributes{Secure: true, SameSite: http.SameSiteLaxMode, MaxAge: 10}
	Append(h, "sid", "one", attrs)
	Append(h, "u", "two", attrs)

	values := h.Values("Set-Cookie")
	require.Len(t, values, 2)
	assert.True(t, strings.HasPrefix(values[0], "sid=one"))
	assert.True(t, strings.HasPrefix(values[1], "u=two"))
}

func TestClear_SetsMaxAgeZero(t *testing.T) {
	h := http.Header{}
	Clear(h, "sid", Attributes{HTTPOnly: true, SameSite: http.SameSiteLaxMode})

	values := h.Values("Set-Cookie")
	require.Len(t, values, 1)
	assert.Contains(t, values[0], "Max-Age=0")
	assert.Contains(t, values[0], "HttpOnly")
}

func TestParse(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   map[string]string
	}{
		{"empty header", "", map[string]string{}},
		{"single", "sid=abc", map[string]string{"sid": "abc"}},
		{"several with spaces", "a=1;  sid=xyz ; u=%7B%22name%22%3A%22A%2BB%22%7D", map[string]string{
			"a": "1", "sid": "xyz", "u": `{"name":"A+B"}`,
		}},
		{"plus stays plus", "n=a+b", map[string]string{"n": "a+b"}},
		{"broken escape kept raw", "n=%zz", map[string]string{"n": "%zz"}},
		{"pair without name skipped", "=oops; sid=1", map[string]string{"sid": "1"}},
		{"first wins", "sid=first; sid=second", map[string]string{"sid": "first"}},
		{"value with equals", "k=a=b", map[string]string{"k": "a=b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.header))
		})
	}
}

func TestFromRequest(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := FromRequest(req, "sid")
	assert.False(t, ok, "без заголовка Cookie куки нет")

	req.Header.Add("Cookie", "theme=dark")
	req.Header.Add("Cookie", "sid=deadbeef")
	v, ok := FromRequest(req, "sid")
	assert.True(t, ok)
	assert.Equal(t, "deadbeef", v)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Cookie", "sid=")
	_, ok = FromRequest(req, "sid")
	assert.False(t, ok, "пустое значение считается отсутствием куки")
}
