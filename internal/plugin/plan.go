package plugin

import (
	"strings"

	"github.com/fitstack/telebirr-payments/internal/domain"
)

// SDK artifacts.
const (
	AndroidArchiveUAT        = "EthiopiaPaySdkModule-uat-release.aar"
	AndroidArchiveProduction = "EthiopiaPaySdkModule-prod-release.aar"
	AndroidArchiveDest       = "app/libs/EthiopiaPaySdkModule-release.aar"
	IOSFramework             = "EthiopiaPaySDK.framework"

	// URL type name the callback scheme is registered under.
	URLTypeName = "com.telebirr.payment"

	// Scheme used when neither a custom scheme nor an app identity is known.
	FallbackURLScheme = "telebirr-app"
)

const androidGradleDependency = "implementation(name: 'EthiopiaPaySdkModule-release', ext: 'aar')"

const androidGradleRepositories = `repositories {
    flatDir {
        dirs 'libs'
    }
}`

const androidProGuardRules = `# Telebirr SDK ProGuard rules
-keep class com.huawei.ethiopia.pay.sdk.** { *; }
-keep interface com.huawei.ethiopia.pay.sdk.** { *; }
-dontwarn com.huawei.ethiopia.pay.sdk.**

# Keep native methods
-keepclasseswithmembernames class * {
    native <methods>;
}

# Keep callback interfaces
-keep class * implements com.huawei.ethiopia.pay.sdk.api.core.listener.PayCallback {
    public <methods>;
}`

// MetaData is an <application> meta-data entry.
type MetaData struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Activity is an SDK activity declared in the Android manifest.
type Activity struct {
	Name              string `json:"name"`
	Theme             string `json:"theme"`
	Exported          bool   `json:"exported"`
	ScreenOrientation string `json:"screenOrientation"`
}

// AndroidPlan is every change the Android project needs.
type AndroidPlan struct {
	SDKArchive         string     `json:"sdkArchive"`
	ArchiveDest        string     `json:"archiveDest"`
	Permissions        []string   `json:"permissions"`
	MetaData           []MetaData `json:"metaData"`
	Activities         []Activity `json:"activities"`
	GradleDependency   string     `json:"gradleDependency"`
	GradleRepositories string     `json:"gradleRepositories"`
	ProGuardRules      string     `json:"proguardRules"`
}

// BuildAndroidPlan computes the Android project changes for cfg.
func BuildAndroidPlan(cfg domain.ResolvedConfig) AndroidPlan {
	archive := AndroidArchiveProduction
	if cfg.Environment == domain.EnvironmentUAT {
		archive = AndroidArchiveUAT
	}

	return AndroidPlan{
		SDKArchive:  archive,
		ArchiveDest: AndroidArchiveDest,
		Permissions: []string{
			"android.permission.INTERNET",
			"android.permission.ACCESS_NETWORK_STATE",
			"android.permission.WRITE_EXTERNAL_STORAGE",
			"android.permission.READ_EXTERNAL_STORAGE",
		},
		MetaData: []MetaData{
			{Name: "com.telebirr.app_id", Value: cfg.AppID},
			{Name: "com.telebirr.short_code", Value: cfg.ShortCode},
			{Name: "com.telebirr.environment", Value: string(cfg.Environment)},
		},
		Activities: []Activity{
			{
				Name:              "com.huawei.ethiopia.pay.sdk.ui.PaymentActivity",
				Theme:             "@android:style/Theme.Translucent.NoTitleBar",
				ScreenOrientation: "portrait",
			},
			{
				Name:              "com.huawei.ethiopia.pay.sdk.ui.WebViewActivity",
				Theme:             "@android:style/Theme.NoTitleBar",
				ScreenOrientation: "portrait",
			},
		},
		GradleDependency:   androidGradleDependency,
		GradleRepositories: androidGradleRepositories,
		ProGuardRules:      androidProGuardRules,
	}
}

// AppInfo identifies the app being configured.
type AppInfo struct {
	BundleIdentifier string `json:"bundleIdentifier"`
	Slug             string `json:"slug"`
}

// URLType is a CFBundleURLTypes entry.
type URLType struct {
	Name    string   `json:"name"`
	Schemes []string `json:"schemes"`
	Role    string   `json:"role"`
}

// ExceptionDomain is an App Transport Security exception.
type ExceptionDomain struct {
	Domain                  string `json:"domain"`
	AllowsInsecureHTTPLoads bool   `json:"allowsInsecureHttpLoads"`
	MinimumTLSVersion       string `json:"minimumTlsVersion"`
	IncludesSubdomains      bool   `json:"includesSubdomains"`
}

// IOSPlan is every change the iOS project needs.
type IOSPlan struct {
	Framework         string            `json:"framework"`
	InfoPlist         map[string]string `json:"infoPlist"`
	URLType           URLType           `json:"urlType"`
	ExceptionDomains  []ExceptionDomain `json:"exceptionDomains"`
	UsageDescriptions map[string]string `json:"usageDescriptions"`
}

// BuildIOSPlan computes the iOS project changes for cfg.
func BuildIOSPlan(cfg domain.ResolvedConfig, app AppInfo) IOSPlan {
	domains := make([]ExceptionDomain, 0, 2)
	for _, d := range []string{"telebirr.com", "ethiotelecom.et"} {
		domains = append(domains, ExceptionDomain{
			Domain:                  d,
			AllowsInsecureHTTPLoads: true,
			MinimumTLSVersion:       "1.0",
			IncludesSubdomains:      true,
		})
	}

	return IOSPlan{
		Framework: IOSFramework,
		InfoPlist: map[string]string{
			"TelebirrAppId":       cfg.AppID,
			"TelebirrShortCode":   cfg.ShortCode,
			"TelebirrEnvironment": string(cfg.Environment),
		},
		URLType: URLType{
			Name:    URLTypeName,
			Schemes: []string{URLScheme(cfg, app)},
			Role:    "Editor",
		},
		ExceptionDomains: domains,
		UsageDescriptions: map[string]string{
			"NSCameraUsageDescription":            "This app uses the camera for payment verification.",
			"NSPhotoLibraryUsageDescription":      "This app accesses the photo library for payment receipts.",
			"NSLocationWhenInUseUsageDescription": "This app uses location for payment security.",
		},
	}
}

// URLScheme picks the payment callback scheme: the custom scheme, then the
// bundle identifier, then the app slug, then FallbackURLScheme.
func URLScheme(cfg domain.ResolvedConfig, app AppInfo) string {
	for _, candidate := range []string{cfg.CustomScheme, app.BundleIdentifier, app.Slug} {
		if s := strings.TrimSpace(candidate); s != "" {
			return s
		}
	}
	return FallbackURLScheme
}
