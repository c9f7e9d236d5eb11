package utils

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

type FileKeyStrategy string

const (
	StrategyHashBased FileKeyStrategy = "hash_based"
	StrategyDateBased FileKeyStrategy = "date_based"
	StrategyUserBased FileKeyStrategy = "user_based"
)

var (
	unsafeChars   = regexp.MustCompile(`[^\p{L}\p{N}_\-.]`)
	repeatedPunct = regexp.MustCompile(`[_\-.]{2,}`)
)

type FileKeyGenerator struct {
	strategy   FileKeyStrategy
	prefix     string
	maxNameLen int
}

func NewFileKeyGenerator(strategy FileKeyStrategy, prefix string) *FileKeyGenerator {
	return &FileKeyGenerator{
		strategy:   strategy,
		prefix:     prefix,
		maxNameLen: 50,
	}
}

func (fkg *FileKeyGenerator) GenerateFileKey(filename, userID string) string {
	switch fkg.strategy {
	case StrategyHashBased:
		return fkg.generateHashBasedKey(filename, userID)
	case StrategyDateBased:
		return fkg.generateDateBasedKey(filename)
	case StrategyUserBased:
		return fkg.generateUserBasedKey(filename, userID)
	default:
		return fkg.generateTimestampUUIDKey(filename)
	}
}

func (fkg *FileKeyGenerator) generateTimestampUUIDKey(filename string) string {
	timestamp := time.Now().Unix()
	uid := uuid.New().String()
	cleanName := fkg.cleanFilename(filename)

	return fmt.Sprintf("%s/%d_%s_%s", fkg.prefix, timestamp, uid, cleanName)
}

// hash-based keys dedupe repeat uploads of the same name by the same user
func (fkg *FileKeyGenerator) generateHashBasedKey(filename, userID string) string {
	content := fmt.Sprintf("%s_%s_%d", filename, userID, time.Now().UnixNano())
	hash := md5.Sum([]byte(content))
	hashStr := hex.EncodeToString(hash[:])

	ext := filepath.Ext(filename)
	return fmt.Sprintf("%s/hash_%s%s", fkg.prefix, hashStr, ext)
}

// date-based keys shard objects by upload day
func (fkg *FileKeyGenerator) generateDateBasedKey(filename string) string {
	now := time.Now()
	uid := uuid.New().String()[:8]
	cleanName := fkg.cleanFilename(filename)

	return fmt.Sprintf("%s/%s/%s_%s", fkg.prefix, now.Format("2006/01/02"), uid, cleanName)
}

// user-based keys group a user's files under a hashed user segment
func (fkg *FileKeyGenerator) generateUserBasedKey(filename, userID string) string {
	timestamp := time.Now().Unix()
	uid := uuid.New().String()[:12]
	cleanName := fkg.cleanFilename(filename)
	userHash := fkg.hashString(userID)[:8]

	return fmt.Sprintf("%s/users/%s/%d_%s_%s", fkg.prefix, userHash, timestamp, uid, cleanName)
}

func (fkg *FileKeyGenerator) cleanFilename(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	baseName := strings.TrimSuffix(filename, filepath.Ext(filename))

	cleanBase := fkg.sanitizeFilename(baseName)

	if len(cleanBase) > fkg.maxNameLen {
		cleanBase = cleanBase[:fkg.maxNameLen]
		cleanBase = trimPartialRune(cleanBase)
	}

	if cleanBase == "" || cleanBase == "_" {
		cleanBase = "document"
	}

	return cleanBase + ext
}

func (fkg *FileKeyGenerator) sanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, " ", "_")
	name = unsafeChars.ReplaceAllString(name, "_")
	name = repeatedPunct.ReplaceAllString(name, "_")
	return strings.Trim(name, "_-.")
}

// trimPartialRune drops a trailing multi-byte rune cut in half by the
// length limit.
func trimPartialRune(s string) string {
	for i := len(s) - 1; i >= 0 && i >= len(s)-4; i-- {
		if s[i]&0x80 == 0 {
			return s
		}
		if s[i]&0xC0 == 0xC0 {
			return s[:i]
		}
	}
	return s
}

func (fkg *FileKeyGenerator) hashString(s string) string {
	hash := md5.Sum([]byte(s))
	return hex.EncodeToString(hash[:])
}
