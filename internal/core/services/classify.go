package services

import (
	"regexp"
	"strings"

	"golang.org/x/net/publicsuffix"

	"github.com/custodia-labs/recon-cli/internal/core/domain"
	"github.com/custodia-labs/recon-cli/internal/core/ports/driving"
)

// classificationRule maps a predicate over an address and its domains to a class.
// Rules are evaluated in order and the first match wins.
type classificationRule struct {
	name  string
	class domain.Classification
	match func(email, domain, registrable string) bool
}

// classificationRules is the precedence table. Anything unmatched is work.
var classificationRules = []classificationRule{
	{name: "noreply", class: domain.ClassNoreply, match: func(email, _, _ string) bool {
		return matchesNoreply(email)
	}},
	{name: "disposable", class: domain.ClassDisposable, match: func(_, d, reg string) bool {
		return disposableDomains[d] || disposableDomains[reg]
	}},
	{name: "personal", class: domain.ClassPersonal, match: func(_, d, _ string) bool {
		return personalDomains[d]
	}},
}

// noreplyPatterns match bot, automation and platform no-reply addresses.
// Patterns are applied to the lower-cased address.
var noreplyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`no-?reply`),
	regexp.MustCompile(`do-?not-?reply`),
	regexp.MustCompile(`@users\.noreply\.github\.com$`),
	regexp.MustCompile(`\[bot\]`),
	regexp.MustCompile(`^(github-)?actions@github\.com$`),
	regexp.MustCompile(`^(dependabot|renovate|greenkeeper|snyk-bot|semantic-release-bot)`),
	regexp.MustCompile(`^bot@|[.-]bot@`),
	regexp.MustCompile(`^(mailer-daemon|postmaster)@`),
	regexp.MustCompile(`@(localhost|localhost\.localdomain)$`),
	regexp.MustCompile(`\.(local|localdomain|internal)$`),
	regexp.MustCompile(`@example\.(com|org|net)$`),
}

var disposableDomains = map[string]bool{
	"mailinator.com":    true,
	"guerrillamail.com": true,
	"guerrillamail.net": true,
	"sharklasers.com":   true,
	"10minutemail.com":  true,
	"temp-mail.org":     true,
	"tempmail.com":      true,
	"throwawaymail.com": true,
	"yopmail.com":       true,
	"getnada.com":       true,
	"trashmail.com":     true,
	"maildrop.cc":       true,
	"dispostable.com":   true,
	"fakeinbox.com":     true,
	"mintemail.com":     true,
	"mohmal.com":        true,
	"emailondeck.com":   true,
	"spamgourmet.com":   true,
	"mailnesia.com":     true,
	"tempr.email":       true,
	"discard.email":     true,
	"burnermail.io":     true,
	"33mail.com":        true,
	"temp-mail.io":      true,
	"moakt.com":         true,
	"mailcatch.com":     true,
	"inboxkitten.com":   true,
	"mytemp.email":      true,
	"tmpmail.org":       true,
	"grr.la":            true,
	"anonaddy.me":       true,
	"spam4.me":          true,
	"trashmail.de":      true,
	"wegwerfmail.de":    true,
	"einrot.com":        true,
	"jetable.org":       true,
	"mailforspam.com":   true,
	"tempinbox.com":     true,
	"emailfake.com":     true,
	"byom.de":           true,
}

var personalDomains = map[string]bool{
	"gmail.com":      true,
	"googlemail.com": true,
	"yahoo.com":      true,
	"yahoo.co.uk":    true,
	"yahoo.fr":       true,
	"ymail.com":      true,
	"hotmail.com":    true,
	"hotmail.co.uk":  true,
	"hotmail.fr":     true,
	"outlook.com":    true,
	"live.com":       true,
	"msn.com":        true,
	"icloud.com":     true,
	"me.com":         true,
	"mac.com":        true,
	"aol.com":        true,
	"protonmail.com": true,
	"protonmail.ch":  true,
	"proton.me":      true,
	"pm.me":          true,
	"tutanota.com":   true,
	"tuta.io":        true,
	"gmx.com":        true,
	"gmx.de":         true,
	"gmx.net":        true,
	"web.de":         true,
	"mail.com":       true,
	"mail.ru":        true,
	"yandex.com":     true,
	"yandex.ru":      true,
	"zoho.com":       true,
	"fastmail.com":   true,
	"hey.com":        true,
	"qq.com":         true,
	"163.com":        true,
	"126.com":        true,
	"naver.com":      true,
	"seznam.cz":      true,
	"free.fr":        true,
	"orange.fr":      true,
	"laposte.net":    true,
	"libero.it":      true,
	"posteo.de":      true,
	"mailbox.org":    true,
}

// Classify validates and categorises an email address.
// A malformed address (not exactly one @, or an empty side) is invalid and
// carries no classification.
func Classify(email string) domain.EmailClass {
	email = strings.TrimSpace(email)
	if strings.Count(email, "@") != 1 {
		return domain.EmailClass{}
	}
	local, host, _ := strings.Cut(email, "@")
	if local == "" || host == "" {
		return domain.EmailClass{}
	}

	lower := strings.ToLower(email)
	d := strings.ToLower(host)
	registrable, err := publicsuffix.EffectiveTLDPlusOne(d)
	if err != nil {
		registrable = d
	}

	class := domain.EmailClass{
		IsValid:           true,
		Domain:            d,
		RegistrableDomain: registrable,
		Classification:    domain.ClassWork,
	}
	for _, rule := range classificationRules {
		if rule.match(lower, d, registrable) {
			class.Classification = rule.class
			break
		}
	}
	class.IsNoreply = class.Classification == domain.ClassNoreply
	class.IsDisposable = class.Classification == domain.ClassDisposable
	return class
}

func matchesNoreply(lowerEmail string) bool {
	for _, p := range noreplyPatterns {
		if p.MatchString(lowerEmail) {
			return true
		}
	}
	return false
}

// Ensure Classifier implements the interface.
var _ driving.ClassifyService = Classifier{}

// Classifier exposes Classify as a driving port.
type Classifier struct{}

// Classify validates and categorises an email address.
func (Classifier) Classify(email string) domain.EmailClass {
	return Classify(email)
}
