package project

// Option is one entry of a closed choice set.
type Option struct {
	ID    string
	Label string
}

// Mixins lists the plugin capability mixins in display order.
var Mixins = []Option{
	{ID: "ActionMixin", Label: "Custom API actions"},
	{ID: "APICallMixin", Label: "Call external APIs"},
	{ID: "AppMixin", Label: "Django app with models"},
	{ID: "BarcodeMixin", Label: "Barcode scanning"},
	{ID: "CurrencyExchangeMixin", Label: "Currency exchange rates"},
	{ID: "EventMixin", Label: "Respond to events"},
	{ID: "LabelPrintingMixin", Label: "Label printing"},
	{ID: "LocateMixin", Label: "Locate stock items"},
	{ID: "NavigationMixin", Label: "Navigation links"},
	{ID: "ReportMixin", Label: "Report context"},
	{ID: "ScheduleMixin", Label: "Scheduled tasks"},
	{ID: "SettingsMixin", Label: "Plugin settings"},
	{ID: "UrlsMixin", Label: "Custom URLs"},
	{ID: "UserInterfaceMixin", Label: "User interface elements"},
	{ID: "ValidationMixin", Label: "Custom validation"},
}

// DefaultMixins are preselected on a first run.
var DefaultMixins = []string{"SettingsMixin", "UserInterfaceMixin"}

// UIMixin is required by any frontend code.
const UIMixin = "UserInterfaceMixin"

// EnforcedPackages are always installed when the frontend is enabled.
var EnforcedPackages = []string{
	"react",
	"react-dom",
	"@mantine/core",
}

// FrontendPackages are the optional frontend packages.
var FrontendPackages = []Option{
	{ID: "@mantine/hooks", Label: "@mantine/hooks"},
	{ID: "@mantine/charts", Label: "@mantine/charts"},
	{ID: "@tabler/icons-react", Label: "@tabler/icons-react"},
}

// Frontend feature identifiers.
const (
	FeatureDashboard = "dashboard"
	FeaturePanel     = "panel"
	FeatureSettings  = "settings"
)

// FrontendFeatures lists the selectable frontend features.
var FrontendFeatures = []Option{
	{ID: FeatureDashboard, Label: "Custom dashboard items"},
	{ID: FeaturePanel, Label: "Custom panel items"},
	{ID: FeatureSettings, Label: "Custom settings display"},
}

// FeatureSources maps each frontend feature to its source file under frontend/.
var FeatureSources = map[string]string{
	FeatureDashboard: "src/Dashboard.tsx",
	FeaturePanel:     "src/Panel.tsx",
	FeatureSettings:  "src/Settings.tsx",
}

// AllFeatures selects every frontend feature.
func AllFeatures() map[string]bool {
	return featureSet(true)
}

// NoFeatures deselects every frontend feature.
func NoFeatures() map[string]bool {
	return featureSet(false)
}

func featureSet(v bool) map[string]bool {
	m := make(map[string]bool, len(FrontendFeatures))
	for _, f := range FrontendFeatures {
		m[f.ID] = v
	}
	return m
}

// CI modes.
const (
	CINone   = "none"
	CIGitHub = "github"
	CIGitLab = "gitlab"
)

// CIModes lists the CI configuration choices.
var CIModes = []Option{
	{ID: CINone, Label: "None"},
	{ID: CIGitHub, Label: "GitHub Actions"},
	{ID: CIGitLab, Label: "GitLab CI"},
}

// IDs extracts the identifiers of a set of options.
func IDs(opts []Option) []string {
	ids := make([]string, len(opts))
	for i, o := range opts {
		ids[i] = o.ID
	}
	return ids
}

// Known filters values down to those present in opts, in opts order.
func Known(opts []Option, values []string) []string {
	want := make(map[string]bool, len(values))
	for _, v := range values {
		want[v] = true
	}
	out := []string{}
	for _, o := range opts {
		if want[o.ID] {
			out = append(out, o.ID)
		}
	}
	return out
}
