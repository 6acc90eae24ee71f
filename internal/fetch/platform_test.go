package fetch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectPlatform(t *testing.T) {
	tests := []struct {
		url  string
		want Platform
	}{
		{"https://job-boards.greenhouse.io/doordashusa/jobs/7063751", PlatformGreenhouse},
		{"https://boards.greenhouse.io/company/jobs/123", PlatformGreenhouse},
		{"https://greenhouse.io/jobs/456", PlatformGreenhouse},
		{"https://Boards.Greenhouse.IO/acme/jobs/1", PlatformGreenhouse},
		{"https://jobs.lever.co/company/job-id", PlatformLever},
		{"https://lever.co/jobs/123", PlatformLever},
		{"https://company.wd5.myworkdayjobs.com/en-US/External", PlatformWorkday},
		{"https://workday.com/jobs", PlatformWorkday},
		{"https://example.com/jobs", PlatformUnknown},
		{"https://linkedin.com/jobs/123", PlatformUnknown},
		{"https://indeed.com/viewjob", PlatformUnknown},
		{"", PlatformUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectPlatform(tt.url))
		})
	}
}

func TestPlatformContentSelectors(t *testing.T) {
	tests := []struct {
		name     string
		platform Platform
		want     []string
	}{
		{"greenhouse", PlatformGreenhouse, []string{".job__description.body", ".job__description"}},
		{"lever", PlatformLever, []string{".posting-page", ".posting-description"}},
		{"workday", PlatformWorkday, []string{"[data-automation-id='jobDescription']"}},
		// Unknown platforms fall back to the generic posting selectors
		{"unknown", PlatformUnknown, []string{".job-description", "main"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			selectors := PlatformContentSelectors(tt.platform)
			for _, want := range tt.want {
				assert.Contains(t, selectors, want)
			}
		})
	}
}

func TestPlatformNoiseSelectors(t *testing.T) {
	common := []string{"form", "#application-form", ".cookie-banner"}

	tests := []struct {
		name     string
		platform Platform
		extra    []string
	}{
		{"greenhouse", PlatformGreenhouse, []string{".application--wrapper", ".voluntary-self-id"}},
		{"lever", PlatformLever, []string{".lever-application-form", ".posting-apply"}},
		{"workday", PlatformWorkday, []string{"[data-automation-id='applyButton']"}},
		{"unknown", PlatformUnknown, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			selectors := PlatformNoiseSelectors(tt.platform)
			for _, want := range append(common, tt.extra...) {
				assert.Contains(t, selectors, want)
			}
		})
	}
}

func TestPlatformNoiseSelectors_DoesNotShareBackingArray(t *testing.T) {
	a := PlatformNoiseSelectors(PlatformGreenhouse)
	b := PlatformNoiseSelectors(PlatformLever)
	assert.Contains(t, a, ".post-apply")
	assert.NotContains(t, b, ".post-apply")
}
