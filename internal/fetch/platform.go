package fetch

import (
	"net/url"
	"strings"
)

// Platform is a recognized applicant tracking system. Knowing the
// platform lets extraction use selectors tuned to its page layout.
type Platform string

const (
	PlatformGreenhouse Platform = "greenhouse"
	PlatformLever      Platform = "lever"
	PlatformWorkday    Platform = "workday"
	PlatformUnknown    Platform = "unknown"
)

// hostPatterns maps hostname substrings to the platform they indicate.
var hostPatterns = []struct {
	substr   string
	platform Platform
}{
	{"greenhouse.io", PlatformGreenhouse},
	{"lever.co", PlatformLever},
	{"workday.com", PlatformWorkday},
	{"myworkdayjobs.com", PlatformWorkday},
}

// DetectPlatform identifies the job board platform from the URL host.
func DetectPlatform(urlStr string) Platform {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return PlatformUnknown
	}

	host := strings.ToLower(parsed.Host)
	for _, p := range hostPatterns {
		if strings.Contains(host, p.substr) {
			return p.platform
		}
	}
	return PlatformUnknown
}

// PlatformContentSelectors returns the content selectors for a platform,
// most specific first. Unknown platforms get the generic job posting set.
func PlatformContentSelectors(platform Platform) []string {
	switch platform {
	case PlatformGreenhouse:
		return []string{
			".job__description.body",
			".job__description",
			".job-description__content",
			"#content",
			".job-post-container",
		}
	case PlatformLever:
		return []string{
			".posting-page",
			".section-wrapper.page-full-width",
			".posting-description",
			".content",
		}
	case PlatformWorkday:
		return []string{
			"[data-automation-id='jobDescription']",
			".WDXK",
			".gwt-HTML",
			".job-description",
		}
	default:
		return JobPostingSelectors()
	}
}

// commonNoiseSelectors are stripped from every platform's pages:
// application forms, EEO boilerplate, share widgets, and consent banners.
var commonNoiseSelectors = []string{
	"form",
	"#application-form",
	".application-form",
	".application--container",
	".apply-button-container",
	"[data-testid='application-form']",

	".voluntary-disclosure",
	".eeo-statement",
	".eeo-section",
	"[data-testid='eeo']",
	".legal-disclosure",
	".self-identification",

	".social-share",
	".share-buttons",
	".social-links",

	".cookie-banner",
	".cookie-consent",
	".gdpr-notice",
}

// PlatformNoiseSelectors returns the elements to strip before extracting
// a platform's posting text.
func PlatformNoiseSelectors(platform Platform) []string {
	extra := map[Platform][]string{
		PlatformGreenhouse: {
			".application--wrapper",
			".voluntary-self-id",
			".voluntary-self-id-wrapper",
			"#usa_self_id_section",
			".post-apply",
		},
		PlatformLever: {
			".apply-section",
			".lever-application-form",
			".posting-apply",
		},
		PlatformWorkday: {
			"[data-automation-id='applyButton']",
			".application-section",
			".WDAF",
		},
	}[platform]

	return append(append([]string{}, commonNoiseSelectors...), extra...)
}
