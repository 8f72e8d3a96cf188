package configs

import (
	"testing"

	"github.com/spf13/viper"
)

// defaultsConfig 仅应用默认值后反序列化出的配置，不读取任何配置文件.
func defaultsConfig(t *testing.T) *AppConfig {
	t.Helper()

	v := viper.New()
	setAllDefaults(v)

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		t.Fatalf("unmarshal defaults: %v", err)
	}

	return &cfg
}

// TestObservabilityDefaults 追踪与指标默认值和应用版本保持一致，pprof 默认关闭.
func TestObservabilityDefaults(t *testing.T) {
	cfg := defaultsConfig(t)

	if cfg.Tracing.ServiceVersion != AppVersion {
		t.Errorf("tracing service_version = %q, want %q", cfg.Tracing.ServiceVersion, AppVersion)
	}

	if got := cfg.Tracing.ResourceLabels["service.version"]; got != AppVersion {
		t.Errorf("tracing resource label version = %q, want %q", got, AppVersion)
	}

	if cfg.Metrics.ServiceVersion != AppVersion {
		t.Errorf("metrics service_version = %q, want %q", cfg.Metrics.ServiceVersion, AppVersion)
	}

	if cfg.Metrics.Pprof {
		t.Error("metrics pprof enabled by default, want disabled")
	}

	if cfg.Tracing.ServiceName != AppName || cfg.Metrics.ServiceName != AppName {
		t.Errorf("service names = %q/%q, want %q", cfg.Tracing.ServiceName, cfg.Metrics.ServiceName, AppName)
	}
}

// TestMQDefaults MQ 默认值落在嵌套的 Common/NATS 配置段上.
func TestMQDefaults(t *testing.T) {
	cfg := defaultsConfig(t)

	if cfg.MQ.Common.ClientID == "" {
		t.Error("mq common client_id default is empty")
	}

	if cfg.MQ.NATS.StreamName == "" {
		t.Error("mq nats stream_name default is empty")
	}
}
