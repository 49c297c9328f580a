package mqtt

import (
	"context"
	"net"
	"net/url"
	"sync"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/tphakala/potability-go/internal/conf"
	"github.com/tphakala/potability-go/internal/errors"
	"github.com/tphakala/potability-go/internal/logger"
	"github.com/tphakala/potability-go/internal/observability/metrics"
)

// client implements the Client interface on top of paho. Reconnection after
// a lost connection is handled by paho's auto-reconnect loop.
type client struct {
	config         Config
	internalClient pahomqtt.Client
	mu             sync.Mutex
	metrics        *metrics.MQTTMetrics
	log            logger.Logger
}

// NewClient creates a new MQTT client from settings. The client is not
// connected until Connect is called.
func NewClient(settings *conf.Settings, m *metrics.MQTTMetrics, log logger.Logger) (Client, error) {
	cfg := DefaultConfig()
	cfg.Broker = settings.MQTT.Broker
	cfg.ClientID = settings.MQTT.ClientID
	cfg.Username = settings.MQTT.Username
	cfg.Password = settings.MQTT.Password
	cfg.Retain = settings.MQTT.Retain
	if settings.MQTT.Topic != "" {
		cfg.Topic = settings.MQTT.Topic
	}
	if cfg.ClientID == "" {
		name := settings.Main.Name
		if name == "" {
			name = "potability"
		}
		cfg.ClientID = name + "-" + uuid.NewString()[:8]
	}
	return newClient(cfg, m, log)
}

func newClient(cfg Config, m *metrics.MQTTMetrics, log logger.Logger) (*client, error) {
	if _, err := parseBroker(cfg.Broker); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.Global().Module("mqtt")
	}
	return &client{
		config:  cfg,
		metrics: m,
		log:     log.With(logger.String("broker", cfg.Broker)),
	}, nil
}

func parseBroker(broker string) (*url.URL, error) {
	u, err := url.Parse(broker)
	if err == nil && (u.Scheme == "" || u.Hostname() == "") {
		err = errors.NewStd("broker URL must have the form scheme://host:port")
	}
	if err != nil {
		return nil, errors.New(err).
			Component("mqtt").
			Category(errors.CategoryConfiguration).
			Context("broker", broker).
			Build()
	}
	return u, nil
}

// Connect establishes the connection. When the first attempt does not
// complete before ctx or the connect timeout ends an error is returned, but
// the underlying client stays in place and keeps retrying until Disconnect.
func (c *client) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	u, err := parseBroker(c.config.Broker)
	if err != nil {
		return err
	}

	// An unresolvable host is not fatal: the broker may not be registered in
	// DNS yet and paho keeps retrying the connection in the background.
	host := u.Hostname()
	if net.ParseIP(host) == nil {
		if _, err := net.DefaultResolver.LookupHost(ctx, host); err != nil {
			c.log.Warn("failed to resolve MQTT broker host, connecting anyway",
				logger.String("host", host),
				logger.Error(err))
		}
	}

	opts := pahomqtt.NewClientOptions()
	opts.AddBroker(c.config.Broker)
	opts.SetClientID(c.config.ClientID)
	opts.SetUsername(c.config.Username)
	opts.SetPassword(c.config.Password)
	opts.SetCleanSession(true)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(c.config.ConnectRetryInterval)
	opts.SetMaxReconnectInterval(c.config.MaxReconnectDelay)
	opts.SetConnectTimeout(c.config.ConnectTimeout)
	opts.SetOnConnectHandler(c.onConnect)
	opts.SetConnectionLostHandler(c.onConnectionLost)
	opts.SetReconnectingHandler(c.onReconnecting)

	c.internalClient = pahomqtt.NewClient(opts)

	token := c.internalClient.Connect()
	if err := wait(ctx, token, c.config.ConnectTimeout); err != nil {
		return connectError(err, c.config.Broker, "connect")
	}

	c.metrics.UpdateConnectionStatus(true)
	return nil
}

// Publish sends payload to topic with QoS 1.
func (c *client) Publish(ctx context.Context, topic string, payload []byte) (err error) {
	start := time.Now()
	defer func() { c.metrics.RecordPublish(len(payload), time.Since(start), err) }()

	if !c.IsConnected() {
		return errors.Newf("not connected to MQTT broker").
			Component("mqtt").
			Category(errors.CategoryMQTTConnect).
			Context("broker", c.config.Broker).
			Build()
	}

	c.log.Debug("publishing", logger.String("topic", topic), logger.Int("size", len(payload)))

	token := c.internalClient.Publish(topic, 1, c.config.Retain, payload)
	if err := wait(ctx, token, c.config.PublishTimeout); err != nil {
		return errors.New(err).
			Component("mqtt").
			Category(errors.CategoryMQTTPublish).
			Context("topic", topic).
			Build()
	}
	return nil
}

// IsConnected returns true if the client is currently connected to the MQTT broker.
func (c *client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.internalClient != nil && c.internalClient.IsConnected()
}

// Disconnect closes the connection and stops the reconnect loop.
func (c *client) Disconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.internalClient == nil {
		return
	}
	c.internalClient.Disconnect(uint(c.config.DisconnectTimeout.Milliseconds()))
	c.internalClient = nil
	c.metrics.UpdateConnectionStatus(false)
	c.log.Info("disconnected from MQTT broker")
}

func (c *client) onConnect(_ pahomqtt.Client) {
	c.log.Info("connected to MQTT broker")
	c.metrics.UpdateConnectionStatus(true)
}

func (c *client) onConnectionLost(_ pahomqtt.Client, err error) {
	c.log.Warn("connection to MQTT broker lost", logger.Error(err))
	c.metrics.UpdateConnectionStatus(false)
}

func (c *client) onReconnecting(_ pahomqtt.Client, _ *pahomqtt.ClientOptions) {
	c.log.Debug("reconnecting to MQTT broker")
	c.metrics.IncrementReconnectAttempts()
}

// wait blocks until token completes, the timeout elapses or ctx is done.
func wait(ctx context.Context, token pahomqtt.Token, timeout time.Duration) error {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-token.Done():
		return token.Error()
	case <-timer.C:
		return errors.NewStd("operation timed out")
	case <-ctx.Done():
		return ctx.Err()
	}
}

func connectError(err error, broker, stage string) error {
	return errors.New(err).
		Component("mqtt").
		Category(errors.CategoryMQTTConnect).
		Context("broker", logger.RedactSensitiveData(broker)).
		Context("stage", stage).
		Build()
}
