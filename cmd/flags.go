package cmd

import (
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func logLevelFlag(v *viper.Viper) string {
	return v.GetString("log.level")
}

func addLogLevelFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("log-level", "info", "log level")
	_ = v.BindPFlag("log.level", flags.Lookup("log-level"))
	_ = v.BindEnv("log.level", "LOG_LEVEL")
}

func logFormatFlag(v *viper.Viper) string {
	return v.GetString("log.format")
}

func addLogFormatFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("log-format", "json", "log format")
	_ = v.BindPFlag("log.format", flags.Lookup("log-format"))
	_ = v.BindEnv("log.format", "LOG_FORMAT")
}

func addressFlag(v *viper.Viper) string {
	return v.GetString("address")
}

func addAddressFlag(flags *pflag.FlagSet, v *viper.Viper, value string) {
	flags.String("address", value, "Address to bind to (host:port)")
	_ = v.BindPFlag("address", flags.Lookup("address"))
	_ = v.BindEnv("address", "ITEMMODEL_ADDRESS")
}

func basePathFlag(v *viper.Viper) string {
	return v.GetString("base_path")
}

func addBasePathFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("base-path", "/itemmodel", "Base path to export the webserver on")
	_ = v.BindPFlag("base_path", flags.Lookup("base-path"))
	_ = v.BindEnv("base_path", "ITEMMODEL_BASE_PATH")
}

func pollFlag(v *viper.Viper) bool {
	return v.GetBool("poll.enabled")
}

func addPollFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Bool("poll", false, "If true, the address arg is polled for the url of the latest flow document")
	_ = v.BindPFlag("poll.enabled", flags.Lookup("poll"))
	_ = v.BindEnv("poll.enabled", "ITEMMODEL_POLL")
}

func pollIntervalFlag(v *viper.Viper) time.Duration {
	return v.GetDuration("poll.interval")
}

func addPollIntervalFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Duration("poll-interval", time.Minute, "Specifies the poll interval")
	_ = v.BindPFlag("poll.interval", flags.Lookup("poll-interval"))
	_ = v.BindEnv("poll.interval", "ITEMMODEL_POLL_INTERVAL")
}

func historyDirFlag(v *viper.Viper) string {
	return v.GetString("history.dir")
}

func addHistoryDirFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("history-dir", "/var/lib/itemmodel", "Where to put my data")
	_ = v.BindPFlag("history.dir", flags.Lookup("history-dir"))
	_ = v.BindEnv("history.dir", "ITEMMODEL_HISTORY_DIR")
}

func historyLimitFlag(v *viper.Viper) int {
	return v.GetInt("history.limit")
}

func addHistoryLimitFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Int("history-limit", 2, "Number of history records to keep")
	_ = v.BindPFlag("history.limit", flags.Lookup("history-limit"))
	_ = v.BindEnv("history.limit", "ITEMMODEL_HISTORY_LIMIT")
}

func storageURLFlag(v *viper.Viper) string {
	return v.GetString("storage.url")
}

func addStorageURLFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("storage-url", "", "History storage: gs://, s3://, azblob:// bucket, sqlite://<path>, postgres:// dsn or a directory, defaults to history-dir")
	_ = v.BindPFlag("storage.url", flags.Lookup("storage-url"))
	_ = v.BindEnv("storage.url", "ITEMMODEL_STORAGE_URL")
}

func storagePrefixFlag(v *viper.Viper) string {
	return v.GetString("storage.prefix")
}

func addStoragePrefixFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("storage-prefix", "", "Key prefix inside a blob storage bucket")
	_ = v.BindPFlag("storage.prefix", flags.Lookup("storage-prefix"))
	_ = v.BindEnv("storage.prefix", "ITEMMODEL_STORAGE_PREFIX")
}

func stallThresholdFlag(v *viper.Viper) time.Duration {
	return v.GetDuration("progress.stall_threshold")
}

func addStallThresholdFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Duration("stall-threshold", 10*time.Second, "Time without progress after which a running item counts as stalled")
	_ = v.BindPFlag("progress.stall_threshold", flags.Lookup("stall-threshold"))
	_ = v.BindEnv("progress.stall_threshold", "ITEMMODEL_STALL_THRESHOLD")
}

func repositoryTimeoutFlag(v *viper.Viper) time.Duration {
	return v.GetDuration("repository.timeout")
}

func addRepositoryTimeoutFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Duration("repository-timeout", 30*time.Second, "Timeout for downloading the flow document")
	_ = v.BindPFlag("repository.timeout", flags.Lookup("repository-timeout"))
	_ = v.BindEnv("repository.timeout", "ITEMMODEL_REPOSITORY_TIMEOUT")
}

func gzipLevelFlag(v *viper.Viper) int {
	return v.GetInt("gzip.level")
}

func addGzipLevelFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Int("gzip-level", -1, "Gzip compression level of http responses")
	_ = v.BindPFlag("gzip.level", flags.Lookup("gzip-level"))
	_ = v.BindEnv("gzip.level", "ITEMMODEL_GZIP_LEVEL")
}

func gracefulPeriodFlag(v *viper.Viper) time.Duration {
	return v.GetDuration("graceful_period")
}

func addGracefulPeriodFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Duration("graceful-period", 0, "Time to wait before shutting down services")
	_ = v.BindPFlag("graceful_period", flags.Lookup("graceful-period"))
	_ = v.BindEnv("graceful_period", "ITEMMODEL_GRACEFUL_PERIOD")
}

func serviceHealthzEnabledFlag(v *viper.Viper) bool {
	return v.GetBool("service.healthz.enabled")
}

func addServiceHealthzEnabledFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Bool("service-healthz-enabled", false, "Enable healthz service")
	_ = v.BindPFlag("service.healthz.enabled", flags.Lookup("service-healthz-enabled"))
}

func servicePrometheusEnabledFlag(v *viper.Viper) bool {
	return v.GetBool("service.prometheus.enabled")
}

func addServicePrometheusEnabledFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Bool("service-prometheus-enabled", false, "Enable prometheus service")
	_ = v.BindPFlag("service.prometheus.enabled", flags.Lookup("service-prometheus-enabled"))
}

func servicePProfEnabledFlag(v *viper.Viper) bool {
	return v.GetBool("service.pprof.enabled")
}

func addServicePProfEnabledFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Bool("service-pprof-enabled", false, "Enable pprof service")
	_ = v.BindPFlag("service.pprof.enabled", flags.Lookup("service-pprof-enabled"))
}

func otelEnabledFlag(v *viper.Viper) bool {
	return v.GetBool("otel.enabled")
}

func addOtelEnabledFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Bool("otel-enabled", false, "Enable otel service")
	_ = v.BindPFlag("otel.enabled", flags.Lookup("otel-enabled"))
	_ = v.BindEnv("otel.enabled", "OTEL_ENABLED")
}

func graphFormatFlag(v *viper.Viper) string {
	return v.GetString("graph.format")
}

func addGraphFormatFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("format", "dot", "Output format: dot, json or yaml")
	_ = v.BindPFlag("graph.format", flags.Lookup("format"))
}

func graphFlowFlag(v *viper.Viper) string {
	return v.GetString("graph.flow")
}

func addGraphFlowFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("flow", "", "Flow to render, defaults to the first flow of the document")
	_ = v.BindPFlag("graph.flow", flags.Lookup("flow"))
}

func graphDirectionFlag(v *viper.Viper) string {
	return v.GetString("graph.direction")
}

func addGraphDirectionFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("direction", "vertical", "Layout direction: vertical or horizontal")
	_ = v.BindPFlag("graph.direction", flags.Lookup("direction"))
}

func exportFlowFlag(v *viper.Viper) string {
	return v.GetString("export.flow")
}

func addExportFlowFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("flow", "", "Flow to export, exports all flows when empty")
	_ = v.BindPFlag("export.flow", flags.Lookup("flow"))
}

func neo4jURIFlag(v *viper.Viper) string {
	return v.GetString("neo4j.uri")
}

func addNeo4jURIFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("neo4j-uri", "neo4j://localhost:7687", "Neo4j connection uri")
	_ = v.BindPFlag("neo4j.uri", flags.Lookup("neo4j-uri"))
	_ = v.BindEnv("neo4j.uri", "ITEMMODEL_NEO4J_URI")
}

func neo4jUsernameFlag(v *viper.Viper) string {
	return v.GetString("neo4j.username")
}

func addNeo4jUsernameFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("neo4j-username", "neo4j", "Neo4j username")
	_ = v.BindPFlag("neo4j.username", flags.Lookup("neo4j-username"))
	_ = v.BindEnv("neo4j.username", "ITEMMODEL_NEO4J_USERNAME")
}

func neo4jPasswordFlag(v *viper.Viper) string {
	return v.GetString("neo4j.password")
}

func addNeo4jPasswordFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("neo4j-password", "", "Neo4j password")
	_ = v.BindPFlag("neo4j.password", flags.Lookup("neo4j-password"))
	_ = v.BindEnv("neo4j.password", "ITEMMODEL_NEO4J_PASSWORD")
}

func neo4jDatabaseFlag(v *viper.Viper) string {
	return v.GetString("neo4j.database")
}

func addNeo4jDatabaseFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("neo4j-database", "", "Neo4j database, the server default when empty")
	_ = v.BindPFlag("neo4j.database", flags.Lookup("neo4j-database"))
	_ = v.BindEnv("neo4j.database", "ITEMMODEL_NEO4J_DATABASE")
}
