// Package dump implements the dump codec: packaging one organization's
// exportable state into a single encrypted, integrity-checked artifact and
// unpacking one received from a peer.
//
// Artifact layout, post-decryption: a deflate-compressed zip holding
// manifest.json, dump.jsonl (tagged records, events then attachments), and
// a files/ subtree whose entries are named by content hash.
package dump

import (
	"bufio"
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/eventsync/eventsync/internal/common"
	"github.com/eventsync/eventsync/internal/cryptox"
	"github.com/eventsync/eventsync/internal/filex"
	"github.com/eventsync/eventsync/internal/logging"
	"github.com/eventsync/eventsync/internal/models"
	"github.com/eventsync/eventsync/internal/repositories/attachments"
	"github.com/eventsync/eventsync/internal/repositories/events"
	"github.com/eventsync/eventsync/internal/repositories/organizations"
	"github.com/google/uuid"
)

const (
	recordsName = "dump.jsonl"
	filesDir    = "files"

	// copyWorkers bounds concurrent attachment copies during export.
	copyWorkers = 4

	// maxRecordLine is the largest accepted dump.jsonl line.
	maxRecordLine = 4 * 1024 * 1024
)

// Codec builds and reads dump artifacts. Keys come from the organization
// row; an optional signing keypair makes dumps attributable.
type Codec struct {
	orgRepo   organizations.Repository
	eventRepo events.Repository
	attRepo   attachments.Repository
	logger    logging.Logger

	signKey   []byte // PKCS#1 private key, may be nil
	verifyKey []byte // PKCS#1 public key, may be nil
}

// Option configures a Codec.
type Option func(*Codec)

// WithSigningKey makes exports carry a detached RSA signature.
func WithSigningKey(privDER []byte) Option {
	return func(c *Codec) { c.signKey = privDER }
}

// WithVerifyKey makes imports verify dump signatures when present.
func WithVerifyKey(pubDER []byte) Option {
	return func(c *Codec) { c.verifyKey = pubDER }
}

// NewCodec constructs a Codec over the given repositories.
func NewCodec(orgRepo organizations.Repository, eventRepo events.Repository,
	attRepo attachments.Repository, logger logging.Logger, opts ...Option) *Codec {
	c := &Codec{
		orgRepo:   orgRepo,
		eventRepo: eventRepo,
		attRepo:   attRepo,
		logger:    logger.With("module", "dump_codec"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ParseError reports one unreadable dump.jsonl line. Bad lines never abort
// the import; they are collected and surfaced.
type ParseError struct {
	Line int
	Err  error
}

func (p ParseError) Error() string {
	return fmt.Sprintf("line %d: %v", p.Line, p.Err)
}

func (p ParseError) Unwrap() error { return p.Err }

// DumpData is the decoded content of one imported artifact. The staging
// directory stays intact so the caller can consume attachment bytes;
// the caller owns final cleanup via Close.
type DumpData struct {
	Manifest    *models.DumpManifest
	Events      []models.Event
	Attachments []models.FileAttachment
	StagingDir  string
	ParseErrors []ParseError
}

// AttachmentPath returns the staged location of an attachment's bytes.
func (d *DumpData) AttachmentPath(hash string) string {
	return filepath.Join(d.StagingDir, filesDir, hash)
}

// Close removes the staging directory.
func (d *DumpData) Close() error {
	return filex.RemoveDir(d.StagingDir)
}

// DumpFileName renders the artifact name for an organization and moment.
func DumpFileName(orgID int64, ts time.Time) string {
	return fmt.Sprintf("eventsync_%d_%s.aes", orgID, ts.UTC().Format("20060102150405"))
}

// CreateDump snapshots the organization's events and attachments, packages
// them, encrypts the package with the organization's key, and writes the
// artifact into outputDir. Staging is removed on every exit path.
func (c *Codec) CreateDump(ctx context.Context, orgID int64, outputDir string) (string, error) {
	org, err := c.orgRepo.GetByID(ctx, orgID)
	if err != nil {
		return "", fmt.Errorf("organization %d: %w", orgID, err)
	}

	evts, err := c.eventRepo.GetAllByOrganization(ctx, orgID, nil)
	if err != nil {
		return "", fmt.Errorf("snapshot events: %w", err)
	}
	ids := make([]int64, len(evts))
	for i := range evts {
		ids[i] = evts[i].ID
	}
	atts, err := c.attRepo.GetByEventIDs(ctx, ids)
	if err != nil {
		return "", fmt.Errorf("snapshot attachments: %w", err)
	}

	staging, err := filex.NewStagingDir()
	if err != nil {
		return "", fmt.Errorf("staging: %w", err)
	}
	defer func() {
		if err := filex.RemoveDir(staging); err != nil {
			c.logger.Warn(ctx, "staging cleanup failed", "dir", staging, "error", err)
		}
	}()

	if err := c.writeRecords(filepath.Join(staging, recordsName), evts, atts); err != nil {
		return "", err
	}
	if err := c.stageAttachmentFiles(ctx, staging, atts); err != nil {
		return "", err
	}

	checksum, err := computeTreeChecksum(staging)
	if err != nil {
		return "", fmt.Errorf("checksum: %w", err)
	}

	manifest := &models.DumpManifest{
		Version:        models.ManifestVersion,
		OrganizationID: orgID,
		Timestamp:      time.Now().UTC(),
		Nonce:          uuid.NewString(),
		EventsCount:    len(evts),
		FilesCount:     len(atts),
		Checksum:       checksum,
	}
	if c.signKey != nil {
		sig, err := cryptox.Sign([]byte(checksum), c.signKey)
		if err != nil {
			return "", fmt.Errorf("sign: %w", err)
		}
		manifest.Signature = base64.StdEncoding.EncodeToString(sig)
	}
	if err := writeManifest(filepath.Join(staging, manifestName), manifest); err != nil {
		return "", err
	}

	var archive bytes.Buffer
	if err := zipTree(staging, &archive); err != nil {
		return "", err
	}

	blob, err := cryptox.Encrypt(archive.Bytes(), org.EncryptionKey)
	if err != nil {
		return "", fmt.Errorf("encrypt: %w", err)
	}

	path := filepath.Join(outputDir, DumpFileName(orgID, manifest.Timestamp))
	if err := os.WriteFile(path, blob, 0o600); err != nil {
		return "", fmt.Errorf("write artifact: %w", err)
	}

	c.logger.Info(ctx, "dump created", "org_id", orgID, "path", path,
		"events", len(evts), "files", len(atts))
	return path, nil
}

// ImportDump decrypts and unpacks an artifact, verifies its manifest and
// checksum, and returns the decoded records. Attachment bytes are NOT
// moved to permanent storage; the caller consumes them from the staging
// directory and then calls DumpData.Close.
func (c *Codec) ImportDump(ctx context.Context, path string, orgID int64) (*DumpData, error) {
	org, err := c.orgRepo.GetByID(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("organization %d: %w", orgID, err)
	}

	blob, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read artifact: %w", err)
	}
	archive, err := cryptox.Decrypt(blob, org.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrDecryption, err)
	}

	staging, err := filex.NewStagingDir()
	if err != nil {
		return nil, fmt.Errorf("staging: %w", err)
	}
	// Staging transfers to DumpData only on full success.
	ok := false
	defer func() {
		if !ok {
			if err := filex.RemoveDir(staging); err != nil {
				c.logger.Warn(ctx, "staging cleanup failed", "dir", staging, "error", err)
			}
		}
	}()

	if err := unzipInto(archive, staging); err != nil {
		return nil, err
	}

	manifest, err := readManifest(filepath.Join(staging, manifestName))
	if err != nil {
		return nil, err
	}
	if manifest.OrganizationID != orgID {
		return nil, fmt.Errorf("%w: manifest organization %d, expected %d",
			common.ErrMalformedDump, manifest.OrganizationID, orgID)
	}

	checksum, err := computeTreeChecksum(staging)
	if err != nil {
		return nil, fmt.Errorf("checksum: %w", err)
	}
	if checksum != manifest.Checksum {
		return nil, fmt.Errorf("%w: checksum mismatch", common.ErrIntegrity)
	}

	if manifest.Signature != "" && c.verifyKey != nil {
		sig, err := base64.StdEncoding.DecodeString(manifest.Signature)
		if err != nil {
			return nil, fmt.Errorf("%w: undecodable signature", common.ErrMalformedDump)
		}
		if err := cryptox.Verify([]byte(manifest.Checksum), sig, c.verifyKey); err != nil {
			return nil, fmt.Errorf("signature: %w", err)
		}
	}

	data := &DumpData{Manifest: manifest, StagingDir: staging}
	if err := c.readRecords(filepath.Join(staging, recordsName), data); err != nil {
		return nil, err
	}

	ok = true
	c.logger.Info(ctx, "dump imported", "org_id", orgID, "path", path,
		"events", len(data.Events), "files", len(data.Attachments),
		"parse_errors", len(data.ParseErrors))
	return data, nil
}

// writeRecords streams one tagged JSON line per record: all events first,
// then all attachments.
func (c *Codec) writeRecords(path string, evts []models.Event, atts []models.FileAttachment) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", recordsName, err)
	}
	w := bufio.NewWriter(f)

	writeLine := func(line []byte) error {
		if _, err := w.Write(line); err != nil {
			return err
		}
		return w.WriteByte('\n')
	}

	for i := range evts {
		line, err := encodeEventRecord(&evts[i])
		if err == nil {
			err = writeLine(line)
		}
		if err != nil {
			_ = f.Close()
			return fmt.Errorf("write event record: %w", err)
		}
	}
	for i := range atts {
		line, err := encodeFileRecord(&atts[i])
		if err == nil {
			err = writeLine(line)
		}
		if err != nil {
			_ = f.Close()
			return fmt.Errorf("write file record: %w", err)
		}
	}

	if err := w.Flush(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func (c *Codec) readRecords(path string, data *DumpData) error {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s missing", common.ErrMalformedDump, recordsName)
		}
		return fmt.Errorf("open %s: %w", recordsName, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), maxRecordLine)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		evt, att, err := decodeRecord(line)
		switch {
		case err != nil:
			data.ParseErrors = append(data.ParseErrors, ParseError{Line: lineNo, Err: err})
		case evt != nil:
			data.Events = append(data.Events, *evt)
		default:
			data.Attachments = append(data.Attachments, *att)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scan %s: %w", recordsName, err)
	}
	return nil
}

// stageAttachmentFiles copies attachment bytes into files/<hash>,
// deduplicating identical content. Copies run concurrently; each hash maps
// to a unique destination so workers never collide.
func (c *Codec) stageAttachmentFiles(ctx context.Context, staging string, atts []models.FileAttachment) error {
	if len(atts) == 0 {
		return nil
	}
	dir, err := filex.EnsureSubDir(staging, filesDir)
	if err != nil {
		return err
	}

	seen := make(map[string]string, len(atts))
	for _, a := range atts {
		if _, dup := seen[a.Hash]; !dup {
			seen[a.Hash] = a.Filepath
		}
	}

	sem := make(chan struct{}, copyWorkers)
	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	for hash, src := range seen {
		wg.Add(1)
		sem <- struct{}{}
		go func(hash, src string) {
			defer wg.Done()
			defer func() { <-sem }()
			if err := filex.CopyFile(src, filepath.Join(dir, hash)); err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
			}
		}(hash, src)
	}
	wg.Wait()

	if firstErr != nil {
		return fmt.Errorf("stage attachments: %w", firstErr)
	}
	return nil
}

func writeManifest(path string, m *models.DumpManifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}

func readManifest(path string) (*models.DumpManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: manifest missing", common.ErrMalformedDump)
		}
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	m := &models.DumpManifest{}
	if err := json.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("%w: unreadable manifest: %v", common.ErrMalformedDump, err)
	}
	return m, nil
}
