package plugin

import (
	"github.com/Piscatoris/backwater-refresh/internal/config"
	"github.com/Piscatoris/backwater-refresh/internal/host"
	"github.com/Piscatoris/backwater-refresh/internal/metrics"
)

// Оригинальные сообщения о замедлении и защите и их цветовые теги.
// Цвет сохраняется и для текста замены.
const (
	slowdownOriginalBody = "The fetid pools significantly reduce the speed of the boat!"

	protectionOriginalBody = "The burst of speed temporarily protects the boat from the fetid pools effect."

	slowdownColorTag   = "<col=ff3045>"
	protectionColorTag = "<col=229628>"

	slowdownOriginalMessage   = slowdownColorTag + slowdownOriginalBody
	protectionOriginalMessage = protectionColorTag + protectionOriginalBody
)

// ChatRewriter подменяет два известных игровых сообщения настраиваемым
// текстом. Сообщения матчатся по чистому телу либо по значению узла с
// цветовым тегом.
type ChatRewriter struct {
	cfg     *config.Config
	client  host.Client
	metrics *metrics.PluginMetrics
}

// NewChatRewriter создаёт подменщик сообщений
func NewChatRewriter(cfg *config.Config, client host.Client, pm *metrics.PluginMetrics) *ChatRewriter {
	return &ChatRewriter{cfg: cfg, client: client, metrics: pm}
}

// Handle пытается подменить сообщение; возвращает true при подмене.
// node == nil — защитный no-op.
func (r *ChatRewriter) Handle(plain string, node host.MessageNode) bool {
	if node == nil {
		return false
	}

	// Сообщение о замедлении.
	if r.cfg.Chat.ReplaceSlowdown &&
		(plain == slowdownOriginalBody || node.Value() == slowdownOriginalMessage) {
		node.SetValue(slowdownColorTag + r.cfg.Chat.GetSlowdownText())
		r.client.RefreshChat()
		r.metrics.ChatRewrites.Inc()
		return true
	}

	// Сообщение о защите от замедления.
	if r.cfg.Chat.ReplaceProtection &&
		(plain == protectionOriginalBody || node.Value() == protectionOriginalMessage) {
		node.SetValue(protectionColorTag + r.cfg.Chat.GetProtectionText())
		r.client.RefreshChat()
		r.metrics.ChatRewrites.Inc()
		return true
	}

	return false
}
