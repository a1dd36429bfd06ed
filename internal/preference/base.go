package preference

// ExtensionInstaller selects how extension packages are installed.
type ExtensionInstaller int

const (
	InstallerLegacy ExtensionInstaller = iota
	InstallerPackageInstaller
	InstallerShizuku
	InstallerPrivate
)

var installerNames = []string{"LEGACY", "PACKAGEINSTALLER", "SHIZUKU", "PRIVATE"}

func (i ExtensionInstaller) String() string {
	if i < 0 || int(i) >= len(installerNames) {
		return installerNames[InstallerPackageInstaller]
	}
	return installerNames[i]
}

// ExtensionInstallers lists every installer.
func ExtensionInstallers() []ExtensionInstaller {
	return []ExtensionInstaller{InstallerLegacy, InstallerPackageInstaller, InstallerShizuku, InstallerPrivate}
}

// BasePreferences groups app-wide switches.
type BasePreferences struct {
	store        Store
	crashDefault bool
}

// NewBasePreferences creates the group. crashReports is the default of
// the crash report toggle, usually true for release builds.
func NewBasePreferences(s Store, crashReports bool) *BasePreferences {
	return &BasePreferences{store: s, crashDefault: crashReports}
}

// DownloadedOnly hides everything that is not downloaded.
func (p *BasePreferences) DownloadedOnly() *Preference[bool] {
	return Bool(p.store, AppStateKey("pref_downloaded_only"), false)
}

func (p *BasePreferences) IncognitoMode() *Preference[bool] {
	return Bool(p.store, AppStateKey("incognito_mode"), false)
}

func (p *BasePreferences) ExtensionInstaller() *Preference[ExtensionInstaller] {
	return Enum(p.store, "extension_installer", InstallerPackageInstaller, ExtensionInstallers())
}

func (p *BasePreferences) CrashReports() *Preference[bool] {
	return Bool(p.store, "acra.enable", p.crashDefault)
}
