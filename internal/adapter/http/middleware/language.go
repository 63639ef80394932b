package middleware

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"

	"todoapp/pkg/translator"
)

const langKey = "lang"

var languageMatcher = language.NewMatcher([]language.Tag{
	language.English,
	language.Japanese,
})

// LanguageMiddleware resolves Accept-Language against the languages the
// translator ships with and stores the result on the context.
func LanguageMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(langKey, ResolveLanguage(c.GetHeader("Accept-Language")))
		c.Next()
	}
}

// ResolveLanguage picks en or ja for an Accept-Language value, falling back
// to en when nothing matches or the header is malformed.
func ResolveLanguage(header string) string {
	if header == "" {
		return translator.LanguageEn
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return translator.LanguageEn
	}
	_, index, confidence := languageMatcher.Match(tags...)
	if confidence == language.No {
		return translator.LanguageEn
	}
	if index == 1 {
		return translator.LanguageJa
	}
	return translator.LanguageEn
}

func GetLang(c *gin.Context) string {
	if lang, exists := c.Get(langKey); exists {
		if s, ok := lang.(string); ok {
			return s
		}
	}
	return translator.LanguageEn
}
