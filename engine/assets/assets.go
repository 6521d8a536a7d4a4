package assets

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"
	"github.com/spaghettifunk/meshview/engine/assets/loaders"
	"github.com/spaghettifunk/meshview/engine/core"
	"github.com/spaghettifunk/meshview/engine/renderer/metadata"
)

// Change notifications beyond this many between two polls are dropped.
const maxPendingChanges = 64

type AssetInfo struct {
	Path       string
	Type       metadata.ResourceType
	LastLoaded time.Time
}

/**
 * @brief Resolves asset names to files, dispatches to the loader registered
 * for each resource type and watches directories for changes. Change
 * notifications are buffered and handed to the main thread by PollChanges.
 */
type AssetManager struct {
	basePath string
	assets   map[string]AssetInfo
	loaders  map[metadata.ResourceType]Loader

	mutex sync.RWMutex

	fsnotify *fsnotify.Watcher
	changes  chan string
	done     chan struct{}
	wg       sync.WaitGroup
	started  bool
	isClosed bool
}

func NewAssetManager(basePath string) (*AssetManager, error) {
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "creating file watcher")
	}

	return &AssetManager{
		basePath: basePath,
		assets:   make(map[string]AssetInfo),
		loaders:  make(map[metadata.ResourceType]Loader),
		fsnotify: fsWatch,
		changes:  make(chan string, maxPendingChanges),
		done:     make(chan struct{}),
	}, nil
}

// Initialize registers the built-in loaders and indexes the base path.
func (am *AssetManager) Initialize() error {
	am.RegisterLoader(metadata.ResourceTypeBinary, &loaders.BinaryLoader{})
	am.RegisterLoader(metadata.ResourceTypeShader, &loaders.ShaderLoader{})
	am.RegisterLoader(metadata.ResourceTypeImage, &loaders.TextureLoader{})
	am.RegisterLoader(metadata.ResourceTypeModel, &loaders.ModelLoader{})
	am.RegisterLoader(metadata.ResourceTypeBitmapFont, &loaders.BitmapFontLoader{})
	am.RegisterLoader(metadata.ResourceTypeSystemFont, &loaders.SystemFontLoader{})

	if _, err := os.Stat(am.basePath); err != nil {
		core.LogWarn("Asset base path '%s' is not readable: %s", am.basePath, err)
		return nil
	}
	return filepath.WalkDir(am.basePath, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			am.handleFileEvent(path)
		}
		return nil
	})
}

func (am *AssetManager) Shutdown() error {
	am.mutex.Lock()
	if am.isClosed {
		am.mutex.Unlock()
		return nil
	}
	am.isClosed = true
	started := am.started
	am.mutex.Unlock()

	if started {
		close(am.done)
		am.wg.Wait()
	}
	return am.fsnotify.Close()
}

// Register loaders for each asset type
func (am *AssetManager) RegisterLoader(assetType metadata.ResourceType, loader Loader) {
	am.mutex.Lock()
	defer am.mutex.Unlock()
	am.loaders[assetType] = loader
}

/**
 * @brief Watches dir and every directory below it. The watch loop is
 * started on first use.
 */
func (am *AssetManager) Watch(dir string) error {
	am.mutex.Lock()
	if am.isClosed {
		am.mutex.Unlock()
		return errors.New("asset manager already closed")
	}
	if !am.started {
		am.started = true
		am.wg.Add(1)
		go am.start()
	}
	am.mutex.Unlock()
	return am.watchRecursive(dir, false)
}

func (am *AssetManager) Unwatch(dir string) error {
	return am.watchRecursive(dir, true)
}

/**
 * @brief Returns the absolute path name resolves to. Existing paths are
 * used as given, anything else is looked up in the type's directory under
 * the base path.
 */
func (am *AssetManager) Resolve(name string, resourceType metadata.ResourceType) (string, error) {
	candidates := []string{name}
	if !filepath.IsAbs(name) {
		candidates = append(candidates, filepath.Join(am.basePath, typeDirectory(resourceType), name))
	}
	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && !info.IsDir() {
			return filepath.Abs(c)
		}
	}
	return "", errors.Wrapf(core.ErrAssetNotFound, "%s asset '%s'", resourceType, name)
}

// Load an asset using the appropriate loader
func (am *AssetManager) LoadAsset(name string, resourceType metadata.ResourceType, params interface{}) (*metadata.Resource, error) {
	path, err := am.Resolve(name, resourceType)
	if err != nil {
		return nil, err
	}

	am.mutex.Lock()
	loader, loaderExists := am.loaders[resourceType]
	if loaderExists {
		am.assets[path] = AssetInfo{Path: path, Type: resourceType, LastLoaded: time.Now()}
	}
	am.mutex.Unlock()
	if !loaderExists {
		return nil, errors.Newf("no loader registered for asset type: %s", resourceType)
	}

	return loader.Load(path, resourceType, params)
}

func (am *AssetManager) UnloadAsset(resource *metadata.Resource) error {
	if resource == nil {
		return nil
	}
	am.mutex.RLock()
	loader, ok := am.loaders[resource.LoaderType]
	am.mutex.RUnlock()
	if !ok {
		return errors.Newf("no loader registered for asset type: %s", resource.LoaderType)
	}
	return loader.Unload(resource)
}

// Info returns what the index knows about an absolute asset path.
func (am *AssetManager) Info(path string) (AssetInfo, bool) {
	am.mutex.RLock()
	defer am.mutex.RUnlock()
	info, ok := am.assets[path]
	return info, ok
}

/**
 * @brief Drains the model files that changed since the last poll, each
 * reported once. Never blocks.
 */
func (am *AssetManager) PollChanges() []string {
	var out []string
	seen := make(map[string]struct{})
	for {
		select {
		case path := <-am.changes:
			if _, dup := seen[path]; dup {
				continue
			}
			seen[path] = struct{}{}
			out = append(out, path)
		default:
			return out
		}
	}
}

func (am *AssetManager) start() {
	defer am.wg.Done()
	for {
		select {
		case e, ok := <-am.fsnotify.Events:
			if !ok {
				return
			}
			am.handleWatchEvent(e)

		case err, ok := <-am.fsnotify.Errors:
			if !ok {
				return
			}
			core.LogError("asset watcher: %s", err)

		case <-am.done:
			return
		}
	}
}

func (am *AssetManager) handleWatchEvent(e fsnotify.Event) {
	s, err := os.Stat(e.Name)
	if err == nil && s.IsDir() {
		if e.Has(fsnotify.Create) {
			if err := am.watchRecursive(e.Name, false); err != nil {
				core.LogWarn("failed to watch new directory %s: %s", e.Name, err)
			}
		}
		return
	}
	if e.Has(fsnotify.Remove) || e.Has(fsnotify.Rename) {
		am.removeAsset(e.Name)
		return
	}
	if !e.Has(fsnotify.Create) && !e.Has(fsnotify.Write) {
		return
	}
	assetType := am.handleFileEvent(e.Name)
	if assetType != metadata.ResourceTypeModel {
		return
	}
	path, err := filepath.Abs(e.Name)
	if err != nil {
		return
	}
	select {
	case am.changes <- path:
	default:
		core.LogWarn("asset change queue full, dropping %s", path)
	}
}

// watchRecursive adds or removes every directory under path.
func (am *AssetManager) watchRecursive(path string, unWatch bool) error {
	return filepath.WalkDir(path, func(walkPath string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			am.handleFileEvent(walkPath)
			return nil
		}
		if unWatch {
			return am.fsnotify.Remove(walkPath)
		}
		return am.fsnotify.Add(walkPath)
	})
}

// handleFileEvent indexes a created or modified file and reports its type.
func (am *AssetManager) handleFileEvent(path string) metadata.ResourceType {
	assetType, ok := determineAssetType(path)
	if !ok {
		return metadata.ResourceTypeCustom
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return metadata.ResourceTypeCustom
	}

	am.mutex.Lock()
	defer am.mutex.Unlock()
	info := am.assets[abs]
	info.Path = abs
	info.Type = assetType
	am.assets[abs] = info
	return assetType
}

// Remove the asset from the index if it was deleted
func (am *AssetManager) removeAsset(path string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return
	}
	am.mutex.Lock()
	defer am.mutex.Unlock()
	delete(am.assets, abs)
}

func determineAssetType(path string) (metadata.ResourceType, bool) {
	switch filepath.Ext(path) {
	case ".obj":
		return metadata.ResourceTypeModel, true
	case ".spv":
		return metadata.ResourceTypeShader, true
	case ".png":
		return metadata.ResourceTypeImage, true
	case ".fnt":
		return metadata.ResourceTypeBitmapFont, true
	case ".ttf", ".otf":
		return metadata.ResourceTypeSystemFont, true
	case ".toml", ".txt":
		return metadata.ResourceTypeText, true
	}
	return metadata.ResourceTypeCustom, false
}

func typeDirectory(resourceType metadata.ResourceType) string {
	switch resourceType {
	case metadata.ResourceTypeModel:
		return "models"
	case metadata.ResourceTypeShader:
		return "shaders"
	case metadata.ResourceTypeImage:
		return "textures"
	case metadata.ResourceTypeBitmapFont, metadata.ResourceTypeSystemFont:
		return "fonts"
	}
	return ""
}
