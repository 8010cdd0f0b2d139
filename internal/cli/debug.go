package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/julianstephens/gradecalc/internal/constants"
	"github.com/julianstephens/gradecalc/internal/storage"
)

type DebugCmd struct {
	Path    DebugPathCmd    `cmd:"" help:"Show the storage location."`
	Dump    DebugDumpCmd    `cmd:"" help:"Dump the stored record as JSON."`
	Records DebugRecordsCmd `cmd:"" help:"List every record in storage."`
}

type DebugPathCmd struct{}

func (cmd *DebugPathCmd) Run(ctx *Context) error {
	p, err := ctx.OpenProvider()
	if err != nil {
		return err
	}

	// Machine-readable output
	output := map[string]string{
		"path":       storage.MaskPassword(p.GetConfigPath()),
		"kind":       string(storage.KindOf(p.GetConfigPath())),
		"record_key": ctx.Config.RecordKey,
	}
	jsonBytes, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	ctx.println(string(jsonBytes))
	return nil
}

type DebugDumpCmd struct {
	Key string `arg:"" optional:"" help:"Record key; defaults to the configured one."`
}

func (cmd *DebugDumpCmd) Run(ctx *Context) error {
	p, err := ctx.OpenProvider()
	if err != nil {
		return err
	}
	if err := p.Load(); err != nil {
		return fmt.Errorf("failed to load storage: %w", err)
	}

	key := cmd.Key
	if key == "" {
		key = ctx.Config.RecordKey
	}
	raw, err := p.ReadRecord(key)
	if errors.Is(err, storage.ErrRecordNotFound) {
		return fmt.Errorf("no record stored under %q", key)
	}
	if err != nil {
		return fmt.Errorf("failed to read record: %w", err)
	}

	// Stored bytes may be corrupt; print them as-is in that case.
	var out bytes.Buffer
	if err := json.Indent(&out, raw, "", "  "); err != nil {
		ctx.println(string(raw))
		return nil
	}
	ctx.println(out.String())
	return nil
}

type DebugRecordsCmd struct{}

func (cmd *DebugRecordsCmd) Run(ctx *Context) error {
	p, err := ctx.OpenProvider()
	if err != nil {
		return err
	}
	if err := p.Load(); err != nil {
		return fmt.Errorf("failed to load storage: %w", err)
	}
	records, err := p.ListRecords()
	if err != nil {
		return fmt.Errorf("failed to list records: %w", err)
	}
	if len(records) == 0 {
		ctx.println("No records stored")
		return nil
	}
	for _, r := range records {
		ctx.printf("  %-24s %6d bytes  %s\n", r.Key, r.Size, r.UpdatedAt.Local().Format(constants.RecordTimeFormat))
	}
	return nil
}
