package stats

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nerdneilsfield/packtrans/internal/fsutil"
	"go.uber.org/zap"
)

const (
	HistoryDBVersion = "1.0.0"
	MaxRecentRecords = 100
)

// Database 运行记录数据库
type Database struct {
	filePath string
	data     *HistoryDB
	mutex    sync.RWMutex
	logger   *zap.Logger
	now      func() time.Time
}

// NewDatabase 创建运行记录数据库
func NewDatabase(filePath string, logger *zap.Logger) (*Database, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	db := &Database{
		filePath: filePath,
		logger:   logger,
		now:      time.Now,
	}

	// 确保目录存在
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create stats directory: %w", err)
	}

	// 加载或创建数据
	if err := db.load(); err != nil {
		return nil, fmt.Errorf("failed to load stats database: %w", err)
	}

	return db, nil
}

// Path 返回数据库文件路径
func (db *Database) Path() string {
	return db.filePath
}

func (db *Database) newHistory() *HistoryDB {
	now := db.now()
	return &HistoryDB{
		Version:       HistoryDBVersion,
		CreatedAt:     now,
		LastUpdated:   now,
		LanguagePairs: make(map[string]*LanguagePairStats),
		Documents:     make(map[string]*DocumentStats),
		RecentRuns:    make([]*RunRecord, 0),
	}
}

// load 加载运行记录。文件不存在时只在内存中创建，第一次写入时才落盘。
func (db *Database) load() error {
	db.mutex.Lock()
	defer db.mutex.Unlock()

	data, err := os.ReadFile(db.filePath)
	if os.IsNotExist(err) {
		db.data = db.newHistory()
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read stats file: %w", err)
	}

	var history HistoryDB
	if err := json.Unmarshal(data, &history); err != nil {
		return fmt.Errorf("failed to parse stats file: %w", err)
	}

	// 初始化可能为 nil 的字段
	if history.LanguagePairs == nil {
		history.LanguagePairs = make(map[string]*LanguagePairStats)
	}
	if history.Documents == nil {
		history.Documents = make(map[string]*DocumentStats)
	}
	if history.RecentRuns == nil {
		history.RecentRuns = make([]*RunRecord, 0)
	}

	db.data = &history
	db.logger.Debug("loaded run history",
		zap.String("version", history.Version),
		zap.Time("created_at", history.CreatedAt),
		zap.Int64("total_runs", history.TotalRuns))

	return nil
}

// Save 保存运行记录
func (db *Database) Save() error {
	db.mutex.Lock()
	defer db.mutex.Unlock()
	return db.saveUnsafe()
}

// saveUnsafe 不安全的保存（需要已持有锁）
func (db *Database) saveUnsafe() error {
	db.data.LastUpdated = db.now()

	data, err := json.MarshalIndent(db.data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal stats data: %w", err)
	}

	if err := fsutil.WriteFileAtomic(db.filePath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write stats file: %w", err)
	}
	return nil
}

// AddRunRecord 添加运行记录，ID 与时间戳为空时自动填充
func (db *Database) AddRunRecord(record *RunRecord) error {
	db.mutex.Lock()
	defer db.mutex.Unlock()

	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.Timestamp.IsZero() {
		record.Timestamp = db.now()
	}
	failed := record.Failed()

	// 更新总体统计
	db.data.TotalRuns++
	db.data.TotalFields += int64(record.Fields)
	db.data.TotalExact += int64(record.Exact)
	db.data.TotalPlaceholder += int64(record.Placeholder)
	db.data.TotalUntranslated += int64(record.Untranslated)
	db.data.TotalDuration += record.Duration
	if failed {
		db.data.TotalErrors++
	}

	// 更新语言对统计
	langPairKey := fmt.Sprintf("%s-%s", record.SourceLanguage, record.TargetLanguage)
	langPair, exists := db.data.LanguagePairs[langPairKey]
	if !exists {
		langPair = &LanguagePairStats{
			SourceLanguage: record.SourceLanguage,
			TargetLanguage: record.TargetLanguage,
		}
		db.data.LanguagePairs[langPairKey] = langPair
	}

	langPair.RunCount++
	langPair.FieldCount += int64(record.Fields)
	langPair.ExactCount += int64(record.Exact)
	langPair.LastUsed = record.Timestamp
	if failed {
		langPair.ErrorCount++
	}

	// 计算平均持续时间
	totalDuration := time.Duration(int64(langPair.AverageDuration) * (langPair.RunCount - 1))
	langPair.AverageDuration = (totalDuration + record.Duration) / time.Duration(langPair.RunCount)

	// 更新文档统计，失败的运行没有覆盖率
	if record.InputFile != "" {
		doc, exists := db.data.Documents[record.InputFile]
		if !exists {
			doc = &DocumentStats{InputFile: record.InputFile}
			db.data.Documents[record.InputFile] = doc
		}
		doc.RunCount++
		doc.LastUsed = record.Timestamp
		if !failed {
			coverage := record.Coverage()
			doc.LastCoverage = coverage
			if coverage > doc.BestCoverage {
				doc.BestCoverage = coverage
			}
		}
	}

	// 添加到最近记录
	db.data.RecentRuns = append(db.data.RecentRuns, record)

	// 保持最近记录数量限制
	if len(db.data.RecentRuns) > MaxRecentRecords {
		// 按时间排序
		sort.SliceStable(db.data.RecentRuns, func(i, j int) bool {
			return db.data.RecentRuns[i].Timestamp.After(db.data.RecentRuns[j].Timestamp)
		})
		db.data.RecentRuns = db.data.RecentRuns[:MaxRecentRecords]
	}

	return db.saveUnsafe()
}

// GetStats 获取运行记录（只读副本）
func (db *Database) GetStats() *HistoryDB {
	db.mutex.RLock()
	defer db.mutex.RUnlock()

	// 创建深拷贝
	data, _ := json.Marshal(db.data)
	var copy HistoryDB
	_ = json.Unmarshal(data, &copy)

	return &copy
}

// GetRecentRuns 获取最近的运行记录，最新的在前
func (db *Database) GetRecentRuns(limit int) []*RunRecord {
	db.mutex.RLock()
	defer db.mutex.RUnlock()

	if limit <= 0 || limit > len(db.data.RecentRuns) {
		limit = len(db.data.RecentRuns)
	}

	// 按时间排序（最新的在前）
	sorted := make([]*RunRecord, len(db.data.RecentRuns))
	copy(sorted, db.data.RecentRuns)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.After(sorted[j].Timestamp)
	})

	return sorted[:limit]
}

// Reset 清空所有运行记录
func (db *Database) Reset() error {
	db.mutex.Lock()
	defer db.mutex.Unlock()

	db.data = db.newHistory()
	db.logger.Info("run history reset", zap.String("path", db.filePath))
	return db.saveUnsafe()
}
