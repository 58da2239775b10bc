package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/smartreach/agent/internal/agent"
	"github.com/smartreach/agent/internal/ai"
	"github.com/smartreach/agent/internal/credential"
	"github.com/smartreach/agent/internal/mail"
	"github.com/smartreach/agent/internal/model"
	"github.com/smartreach/agent/internal/store"
)

// runtime bundles the wired-up collaborators a command needs.
type runtime struct {
	cfg           *model.AppConfig
	transport     *mail.Transport
	generator     *ai.Client
	db            *store.SQLiteStore
	queue         *store.ReplyStore
	ledger        *store.LedgerStore
	handling      *store.HandlingStore
	conversations *store.ConversationStore
	status        *store.StatusLog
}

// newRuntime loads the configuration, resolves credentials, and
// constructs the stores and clients.
func newRuntime(cmd *cobra.Command) (*runtime, error) {
	cfg, err := model.LoadConfig(configPath(cmd))
	if err != nil {
		return nil, err
	}
	if cfg.Mailbox.Username == "" {
		return nil, errors.New("mailbox is not configured, run `smartreach setup` first")
	}

	password, err := credential.Resolve(credential.KeyMailboxPassword)
	if err != nil {
		return nil, fmt.Errorf("resolving mailbox password: %w", err)
	}
	apiKey, err := credential.Resolve(credential.KeyAIAPIKey)
	if err != nil {
		return nil, fmt.Errorf("resolving AI API key: %w", err)
	}

	generator, err := ai.NewClient(cfg.AI, apiKey)
	if err != nil {
		return nil, err
	}

	db, err := store.NewSQLiteStore(cfg.DatabasePath())
	if err != nil {
		return nil, fmt.Errorf("opening campaign database: %w", err)
	}

	return &runtime{
		cfg:           cfg,
		transport:     mail.NewTransport(cfg.Mailbox, cfg.OwnerAddress(), password),
		generator:     generator,
		db:            db,
		queue:         store.NewReplyStore(cfg.PendingRepliesPath()),
		ledger:        store.NewLedgerStore(cfg.SendLedgerPath()),
		handling:      store.NewHandlingStore(cfg.HandlingLogPath()),
		conversations: store.NewConversationStore(cfg.ConversationLogPath()),
		status:        store.NewStatusLog(cfg.StatusLogPath()),
	}, nil
}

func (r *runtime) Close() {
	if r.db != nil {
		r.db.Close()
	}
}

func (r *runtime) launcher() *agent.Launcher {
	return agent.NewLauncher(r.ledger, r.db, r.transport, r.generator)
}

func (r *runtime) tracker() *agent.Tracker {
	return agent.NewTracker(r.ledger, r.queue, r.transport)
}

func (r *runtime) processor() *agent.Processor {
	return agent.NewProcessor(agent.ProcessorDeps{
		Queue:         r.queue,
		Handling:      r.handling,
		Conversations: r.conversations,
		Products:      r.db,
		Status:        r.status,
		Transport:     r.transport,
		Generator:     r.generator,
	}, agent.ProcessorConfig{
		SuppressionWindow: r.cfg.SuppressionWindow(),
		HistoryLimit:      r.cfg.Processing.HistoryLimit,
	})
}

func (r *runtime) reporter() *agent.Reporter {
	return agent.NewReporter(r.db, r.queue, r.conversations)
}
