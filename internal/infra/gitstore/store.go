// Package gitstore provides a Git plumbing-based implementation of CommentRepository.
package gitstore

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"slices"
	"strings"
	"sync"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"gopkg.in/yaml.v3"

	"github.com/runoshun/crew-talk/internal/domain"
	"github.com/runoshun/crew-talk/internal/infra/crypto"
)

// SchemaVersion is the layout version recorded in the meta blob.
const SchemaVersion = 1

// ErrEncrypted is returned when an encrypted store is opened without a passphrase.
var ErrEncrypted = errors.New("store is encrypted")

// Store implements domain.CommentRepository using Git plumbing (refs and blobs).
//
// Data structure:
//
//	refs/<namespace>/
//	  meta         → blob (schema version, encryption parameters; never encrypted)
//	  initialized  → blob (marker)
//	  tabs/
//	    <tab>      → blob (comments YAML, optionally encrypted)
//
// Fields are ordered to minimize memory padding.
type Store struct {
	repo      *git.Repository
	encryptor *crypto.Encryptor
	opts      Options
	namespace string // e.g., "talk"
	mu        sync.RWMutex
}

// Options configures encryption of tab blobs.
type Options struct {
	// KDFParams overrides the key derivation parameters of a new encrypted
	// store. Nil uses crypto.DefaultKDFParams.
	KDFParams  *crypto.KDFParams
	Passphrase []byte // Empty disables encryption
	CachePath  string // Nonce cache directory (empty = memory only)
}

// meta contains store metadata.
type meta struct {
	Encryption *encryptionMeta `yaml:"encryption,omitempty"`
	Version    int             `yaml:"version"`
}

type encryptionMeta struct {
	Algorithm string           `yaml:"algorithm"`
	KDF       string           `yaml:"kdf"`
	Params    crypto.KDFParams `yaml:"params"`
}

// tabData holds the comments of one tab.
type tabData struct {
	Comments []domain.Comment `yaml:"comments"`
}

// New opens the repository containing path.
func New(path, namespace string, opts Options) (*Store, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("open git repository: %w", err)
	}
	return NewWithRepo(repo, namespace, opts), nil
}

// NewWithRepo creates a new Store with an existing repository instance.
func NewWithRepo(repo *git.Repository, namespace string, opts Options) *Store {
	return &Store{
		repo:      repo,
		namespace: namespace,
		opts:      opts,
	}
}

func (s *Store) refPrefix() string {
	return "refs/" + s.namespace + "/"
}

func (s *Store) tabsPrefix() string {
	return s.refPrefix() + "tabs/"
}

func (s *Store) tabRef(tab domain.Tab) plumbing.ReferenceName {
	return plumbing.ReferenceName(s.tabsPrefix() + url.PathEscape(string(tab.Resolve())))
}

func (s *Store) metaRef() plumbing.ReferenceName {
	return plumbing.ReferenceName(s.refPrefix() + "meta")
}

func (s *Store) initializedRef() plumbing.ReferenceName {
	return plumbing.ReferenceName(s.refPrefix() + "initialized")
}

// IsEncrypted reports whether the store was initialized with encryption.
func (s *Store) IsEncrypted() (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, err := s.loadMeta()
	if err != nil {
		return false, err
	}
	return m.Encryption != nil, nil
}

// Load retrieves the comments of one tab.
func (s *Store) Load(tab domain.Tab) ([]domain.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureEncryptor(); err != nil {
		return nil, err
	}
	comments, err := s.loadTab(s.tabRef(tab))
	if err != nil {
		return nil, err
	}
	if comments == nil {
		comments = []domain.Comment{}
	}
	return comments, nil
}

// LoadAll retrieves the comments of every tab, ordered by tab name.
func (s *Store) LoadAll() ([]domain.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureEncryptor(); err != nil {
		return nil, err
	}
	names, err := s.tabRefs()
	if err != nil {
		return nil, err
	}

	all := []domain.Comment{}
	for _, name := range names {
		comments, err := s.loadTab(name)
		if err != nil {
			return nil, err
		}
		all = append(all, comments...)
	}
	return all, nil
}

// Save replaces the stored collection. Tabs absent from comments are removed.
func (s *Store) Save(comments []domain.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureEncryptor(); err != nil {
		return err
	}

	byTab := make(map[plumbing.ReferenceName]*tabData)
	for tab, tabComments := range domain.PartitionByTab(comments) {
		byTab[s.tabRef(tab)] = &tabData{Comments: tabComments}
	}

	for name, data := range byTab {
		raw, err := yaml.Marshal(data)
		if err != nil {
			return fmt.Errorf("marshal tab: %w", err)
		}
		hash, err := s.writeBlob(raw)
		if err != nil {
			return err
		}
		if err := s.repo.Storer.SetReference(plumbing.NewHashReference(name, hash)); err != nil {
			return fmt.Errorf("set tab ref %s: %w", name, err)
		}
	}

	existing, err := s.tabRefs()
	if err != nil {
		return err
	}
	for _, name := range existing {
		if _, keep := byTab[name]; keep {
			continue
		}
		if err := s.repo.Storer.RemoveReference(name); err != nil {
			return fmt.Errorf("remove tab ref %s: %w", name, err)
		}
	}
	return nil
}

// Tabs returns the tabs that hold stored comments, sorted by name.
func (s *Store) Tabs() ([]domain.Tab, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names, err := s.tabRefs()
	if err != nil {
		return nil, err
	}
	tabs := make([]domain.Tab, 0, len(names))
	for _, name := range names {
		raw := strings.TrimPrefix(string(name), s.tabsPrefix())
		tab, err := url.PathUnescape(raw)
		if err != nil {
			tab = raw
		}
		tabs = append(tabs, domain.Tab(tab))
	}
	return tabs, nil
}

// Initialize creates metadata and the initialized marker.
// A passphrase in Options turns on encryption for a new store.
func (s *Store) Initialize() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.repo.Reference(s.initializedRef(), true)
	if err == nil {
		return nil
	}
	if !errors.Is(err, plumbing.ErrReferenceNotFound) {
		return fmt.Errorf("check initialized ref: %w", err)
	}

	m := &meta{Version: SchemaVersion}
	if len(s.opts.Passphrase) > 0 {
		params, err := s.kdfParams()
		if err != nil {
			return err
		}
		m.Encryption = &encryptionMeta{Algorithm: crypto.Algorithm, KDF: crypto.KDF, Params: params}
	}
	if err := s.saveMeta(m); err != nil {
		return err
	}

	hash, err := s.writeRawBlob([]byte("initialized"))
	if err != nil {
		return err
	}
	if err := s.repo.Storer.SetReference(plumbing.NewHashReference(s.initializedRef(), hash)); err != nil {
		return fmt.Errorf("set initialized ref: %w", err)
	}
	return nil
}

// IsInitialized checks if the store has been initialized.
func (s *Store) IsInitialized() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, err := s.repo.Reference(s.initializedRef(), true)
	return err == nil
}

func (s *Store) kdfParams() (crypto.KDFParams, error) {
	if s.opts.KDFParams != nil {
		return *s.opts.KDFParams, nil
	}
	params, err := crypto.DefaultKDFParams()
	if err != nil {
		return crypto.KDFParams{}, fmt.Errorf("kdf params: %w", err)
	}
	return params, nil
}

// ensureEncryptor sets up decryption for an encrypted store.
func (s *Store) ensureEncryptor() error {
	if s.encryptor != nil {
		return nil
	}
	m, err := s.loadMeta()
	if err != nil {
		return err
	}
	if m.Encryption == nil {
		return nil
	}
	if len(s.opts.Passphrase) == 0 {
		return fmt.Errorf("%w: %w", ErrEncrypted, domain.ErrNoPassphrase)
	}
	enc, err := crypto.NewEncryptor(s.opts.Passphrase, m.Encryption.Params, s.opts.CachePath)
	if err != nil {
		return fmt.Errorf("create encryptor: %w", err)
	}
	s.encryptor = enc
	return nil
}

// tabRefs lists tab refs sorted by name.
func (s *Store) tabRefs() ([]plumbing.ReferenceName, error) {
	refs, err := s.repo.References()
	if err != nil {
		return nil, fmt.Errorf("list refs: %w", err)
	}
	prefix := s.tabsPrefix()
	var names []plumbing.ReferenceName
	err = refs.ForEach(func(ref *plumbing.Reference) error {
		if strings.HasPrefix(ref.Name().String(), prefix) {
			names = append(names, ref.Name())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.Sort(names)
	return names, nil
}

func (s *Store) loadTab(name plumbing.ReferenceName) ([]domain.Comment, error) {
	ref, err := s.repo.Reference(name, true)
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get tab ref: %w", err)
	}

	raw, err := s.readBlob(ref.Hash())
	if err != nil {
		return nil, fmt.Errorf("read tab: %w", err)
	}

	var data tabData
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decode tab: %w", err)
	}
	return data.Comments, nil
}

// loadMeta loads metadata from the meta ref. A missing ref means an
// unencrypted store of the current version.
func (s *Store) loadMeta() (*meta, error) {
	ref, err := s.repo.Reference(s.metaRef(), true)
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return &meta{Version: SchemaVersion}, nil
		}
		return nil, fmt.Errorf("get meta ref: %w", err)
	}

	data, err := s.readRawBlob(ref.Hash())
	if err != nil {
		return nil, fmt.Errorf("read meta: %w", err)
	}

	var m meta
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode meta: %w", err)
	}
	if m.Version > SchemaVersion {
		return nil, fmt.Errorf("unsupported store version %d", m.Version)
	}
	return &m, nil
}

func (s *Store) saveMeta(m *meta) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal meta: %w", err)
	}
	hash, err := s.writeRawBlob(data)
	if err != nil {
		return err
	}
	if err := s.repo.Storer.SetReference(plumbing.NewHashReference(s.metaRef(), hash)); err != nil {
		return fmt.Errorf("set meta ref: %w", err)
	}
	return nil
}

// writeBlob writes data to a blob, encrypting it if encryption is enabled.
func (s *Store) writeBlob(data []byte) (plumbing.Hash, error) {
	if s.encryptor != nil {
		encrypted, err := s.encryptor.Encrypt(data)
		if err != nil {
			return plumbing.ZeroHash, fmt.Errorf("encrypt data: %w", err)
		}
		data = encrypted
	}
	return s.writeRawBlob(data)
}

func (s *Store) writeRawBlob(data []byte) (plumbing.Hash, error) {
	obj := s.repo.Storer.NewEncodedObject()
	obj.SetType(plumbing.BlobObject)
	obj.SetSize(int64(len(data)))

	writer, err := obj.Writer()
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("create blob writer: %w", err)
	}
	if _, writeErr := writer.Write(data); writeErr != nil {
		_ = writer.Close()
		return plumbing.ZeroHash, fmt.Errorf("write blob: %w", writeErr)
	}
	_ = writer.Close()

	hash, err := s.repo.Storer.SetEncodedObject(obj)
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("store blob: %w", err)
	}
	return hash, nil
}

// readBlob reads and optionally decrypts data from a blob.
func (s *Store) readBlob(hash plumbing.Hash) ([]byte, error) {
	data, err := s.readRawBlob(hash)
	if err != nil {
		return nil, err
	}
	if s.encryptor != nil {
		decrypted, err := s.encryptor.Decrypt(data)
		if err != nil {
			return nil, fmt.Errorf("decrypt data: %w", err)
		}
		return decrypted, nil
	}
	return data, nil
}

func (s *Store) readRawBlob(hash plumbing.Hash) ([]byte, error) {
	blob, err := s.repo.BlobObject(hash)
	if err != nil {
		return nil, fmt.Errorf("get blob: %w", err)
	}
	reader, err := blob.Reader()
	if err != nil {
		return nil, fmt.Errorf("read blob: %w", err)
	}
	defer func() { _ = reader.Close() }()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read blob data: %w", err)
	}
	return data, nil
}

// Ensure Store implements CommentRepository.
var _ domain.CommentRepository = (*Store)(nil)

// Ensure Store implements StoreInitializer.
var _ domain.StoreInitializer = (*Store)(nil)
