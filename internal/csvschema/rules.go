package csvschema

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var (
	rulesOnce  sync.Once
	validate   *validator.Validate
	translator ut.Translator
)

func ruleEngine() (*validator.Validate, ut.Translator) {
	rulesOnce.Do(func() {
		english := en.New()
		uni := ut.New(english, english)
		translator, _ = uni.GetTranslator("en")
		validate = validator.New()
		_ = en_translations.RegisterDefaultTranslations(validate, translator)
	})
	return validate, translator
}

// applyRule validates value against a validator tag such as "email" or "max=40" and
// returns the translated message on failure.
func applyRule(rule string, value any) (msg string, ok bool) {
	v, trans := ruleEngine()
	defer func() {
		if r := recover(); r != nil {
			msg, ok = fmt.Sprintf("invalid rule %q", rule), false
		}
	}()
	err := v.Var(value, rule)
	if err == nil {
		return "", true
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return strings.TrimSpace(fieldErrs[0].Translate(trans)), false
	}
	return err.Error(), false
}

// checkRuleSyntax rejects tags the validator does not know. The validator panics on those.
func checkRuleSyntax(rule string) (err error) {
	v, _ := ruleEngine()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("invalid rule %q: %v", rule, r)
		}
	}()
	// The outcome does not matter, only whether the tag parses.
	_ = v.Var("", rule)
	return nil
}
