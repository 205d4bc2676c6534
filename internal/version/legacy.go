package version

// legacyGameArguments and legacyJVMArguments reproduce the hard-coded
// defaults from spec.md §9, substituted in whenever a resolved
// version's minimumLauncherVersion is below 21.
var legacyGameArguments = []string{
	"--username", "${auth_player_name}",
	"--version", "${version_name}",
	"--gameDir", "${game_directory}",
	"--assetsDir", "${assets_root}",
	"--assetIndex", "${asset_index}",
	"--uuid", "${auth_uuid}",
	"--accessToken", "${auth_access_token}",
	"--clientId", "${clientid}",
	"--xuid", "${auth_xuid}",
	"--userType", "${user_type}",
	"--versionType", "${version_type}",
	"--width", "${resolution_width}",
	"--height", "${resolution_height}",
}

var legacyJVMArguments = []string{
	"-Djava.library.path=${natives_directory}",
	"-Dminecraft.launcher.brand=${launcher_name}",
	"-Dminecraft.launcher.version=${launcher_version}",
	"-Dfile.encoding=UTF-8",
	"-Dsun.stdout.encoding=UTF-8",
	"-Dsun.stderr.encoding=UTF-8",
	"-Djava.rmi.server.useCodebaseOnly=true",
	"-XX:MaxInlineSize=420",
	"-XX:-UseAdaptiveSizePolicy",
	"-XX:-OmitStackTraceInFastThrow",
	"-XX:-DontCompileHugeMethods",
	"-Dcom.sun.jndi.rmi.object.trustURLCodebase=false",
	"-Dcom.sun.jndi.cosnaming.object.trustURLCodebase=false",
	"-Dlog4j2.formatMsgNoLookups=true",
	"-cp", "${classpath}",
}

const legacyLauncherVersionCeiling = 21
