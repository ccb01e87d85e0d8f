package middleware

import "strings"

// MatchKind способ сравнения пути с шаблоном
type MatchKind int

const (
	MatchExact MatchKind = iota
	MatchPrefix
)

// Rule открытый маршрут, не требующий сессии
type Rule struct {
	Kind    MatchKind
	Pattern string
}

func (r Rule) matches(path string) bool {
	switch r.Kind {
	case MatchExact:
		return path == r.Pattern
	case MatchPrefix:
		return strings.HasPrefix(path, r.Pattern)
	default:
		return false
	}
}

// RouteTable список открытых маршрутов. Все остальные пути защищены.
type RouteTable []Rule

// IsOpen сообщает, можно ли пропустить запрос без сессии
func (t RouteTable) IsOpen(path string) bool {
	for _, r := range t {
		if r.matches(path) {
			return true
		}
	}
	return false
}

// DefaultOpenRoutes: страницы входа, эндпоинты авторизации, статика оформления
// и служебные /internal/ маршруты.
func DefaultOpenRoutes(loginPath string) RouteTable {
	table := RouteTable{
		{MatchExact, "/"},
		{MatchExact, "/index.html"},
		{MatchExact, "/login.html"},
		{MatchExact, "/api/auth/request-code"},
		{MatchExact, "/api/auth/verify-code"},
		{MatchExact, "/api/auth/logout"},
		{MatchPrefix, "/assets/"},
		{MatchPrefix, "/favicon"},
		{MatchPrefix, "/robots.txt"},
		{MatchPrefix, "/.well-known/"},
		{MatchPrefix, "/internal/"},
	}
	if loginPath != "" && !table.IsOpen(loginPath) {
		table = append(table, Rule{MatchExact, loginPath})
	}
	return table
}
