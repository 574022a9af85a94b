package plugin

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"

	"github.com/Piscatoris/backwater-refresh/internal/config"
	"github.com/Piscatoris/backwater-refresh/internal/host"
	"github.com/Piscatoris/backwater-refresh/internal/metrics"
)

func newTestChatRewriter(cfg *config.Config) (*ChatRewriter, *host.FakeClient) {
	client := host.NewFakeClient()
	pm := metrics.NewPluginMetrics(prometheus.NewRegistry())
	return NewChatRewriter(cfg, client, pm), client
}

func TestChatRewritesSlowdownByPlainBody(t *testing.T) {
	r, client := newTestChatRewriter(config.Default())
	node := &host.FakeMessageNode{Val: slowdownOriginalMessage}

	assert.True(t, r.Handle(slowdownOriginalBody, node))
	assert.Equal(t, slowdownColorTag+config.DefaultSlowdownMessage, node.Val,
		"цветовой тег оригинала сохраняется")
	assert.Equal(t, 1, client.ChatRefreshes)
}

func TestChatRewritesProtectionByNodeValue(t *testing.T) {
	cfg := config.Default()
	cfg.Chat.ProtectionText = "Буст скорости защищает лодку."
	r, client := newTestChatRewriter(cfg)
	node := &host.FakeMessageNode{Val: protectionOriginalMessage}

	// Чистое тело не совпадает, но значение узла с тегом матчится.
	assert.True(t, r.Handle("", node))
	assert.Equal(t, protectionColorTag+"Буст скорости защищает лодку.", node.Val)
	assert.Equal(t, 1, client.ChatRefreshes)
}

func TestChatSkipsWhenDisabled(t *testing.T) {
	cfg := config.Default()
	cfg.Chat.ReplaceSlowdown = false
	r, client := newTestChatRewriter(cfg)
	node := &host.FakeMessageNode{Val: slowdownOriginalMessage}

	assert.False(t, r.Handle(slowdownOriginalBody, node))
	assert.Equal(t, slowdownOriginalMessage, node.Val)
	assert.Zero(t, client.ChatRefreshes)
}

func TestChatIgnoresUnrelatedMessages(t *testing.T) {
	r, client := newTestChatRewriter(config.Default())
	node := &host.FakeMessageNode{Val: "Welcome to the river."}

	assert.False(t, r.Handle("Welcome to the river.", node))
	assert.Equal(t, "Welcome to the river.", node.Val)
	assert.Zero(t, client.ChatRefreshes)
}

func TestChatNilNodeIsNoop(t *testing.T) {
	r, _ := newTestChatRewriter(config.Default())

	assert.False(t, r.Handle(slowdownOriginalBody, nil))
}

func TestClassifyChange(t *testing.T) {
	cases := map[string]ChangeEffect{
		config.KeyHideSurfaceBubbles:    EffectFullRebuild,
		config.KeyHideBarrierBubbles:    EffectFullRebuild,
		config.KeyReplaceBarrierBubbles: EffectFullRebuild,
		config.KeyDenseBarrierMarkers:   EffectFullRebuild,
		config.KeyRandomRotation:        EffectReapplyOrientation,
		config.KeyGridAlignedRotation:   EffectReapplyOrientation,
		"somethingElse":                 EffectNone,
	}

	for key, want := range cases {
		assert.Equal(t, want, ClassifyChange(key), "ключ %q", key)
	}
}
