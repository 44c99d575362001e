// Command import loads a legacy mongodump directory into MySQL. It reads the
// raw .bson collection dumps (users, blogs, comments, subscribers, contacts),
// keeps ObjectID hex strings as row IDs so existing links stay valid, and
// inserts through GORM. Rows that already exist are skipped.
package main

import (
	"encoding/binary"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nitaidalal/blog-core/internal/config"
	"github.com/nitaidalal/blog-core/internal/database"
	"github.com/nitaidalal/blog-core/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	configPath := flag.String("config", config.DefaultConfigPath, "Path to YAML config file")
	dumpDir := flag.String("dump", "", "Path to the mongodump database directory")
	flag.Parse()

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	if strings.TrimSpace(*dumpDir) == "" {
		logger.Fatal("missing -dump flag")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	db, err := database.Connect(cfg, true)
	if err != nil {
		logger.Fatal("failed to connect database", zap.Error(err))
	}

	imp := importer{db: db, dir: *dumpDir, log: logger}
	if err := imp.run(); err != nil {
		logger.Fatal("import failed", zap.Error(err))
	}
	logger.Info("import finished")
}

type importer struct {
	db  *gorm.DB
	dir string
	log *zap.Logger
}

func (imp *importer) run() error {
	steps := []struct {
		collection string
		fn         func(doc map[string]interface{}) error
	}{
		{"users", imp.importUser},
		{"blogs", imp.importBlog},
		{"comments", imp.importComment},
		{"subscribers", imp.importSubscriber},
		{"contacts", imp.importContact},
	}

	for _, step := range steps {
		docs, err := imp.loadCollection(step.collection)
		if err != nil {
			return fmt.Errorf("load %s: %w", step.collection, err)
		}
		if docs == nil {
			imp.log.Warn("collection dump not found, skipping", zap.String("collection", step.collection))
			continue
		}

		imported, skipped := 0, 0
		for _, doc := range docs {
			if err := step.fn(doc); err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					skipped++
					continue
				}
				return fmt.Errorf("import %s row: %w", step.collection, err)
			}
			imported++
		}
		imp.log.Info("collection imported",
			zap.String("collection", step.collection),
			zap.Int("imported", imported),
			zap.Int("skipped", skipped),
		)
	}
	return nil
}

// loadCollection reads <dir>/<name>.bson: a concatenation of little-endian
// length-prefixed BSON documents, mongodump's raw format. Returns nil when
// the file does not exist.
func (imp *importer) loadCollection(name string) ([]map[string]interface{}, error) {
	path := filepath.Join(imp.dir, name+".bson")
	payload, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	docs := make([]map[string]interface{}, 0)
	cursor := 0
	for cursor < len(payload) {
		if cursor+4 > len(payload) {
			return nil, fmt.Errorf("truncated bson payload")
		}
		docLen := int(int32(binary.LittleEndian.Uint32(payload[cursor : cursor+4])))
		if docLen <= 0 || cursor+docLen > len(payload) {
			return nil, fmt.Errorf("invalid bson document length")
		}
		var doc map[string]interface{}
		if err := bson.Unmarshal(payload[cursor:cursor+docLen], &doc); err != nil {
			return nil, err
		}
		docs = append(docs, doc)
		cursor += docLen
	}
	return docs, nil
}

func (imp *importer) importUser(doc map[string]interface{}) error {
	user := models.UserModel{
		Name:     docString(doc, "name"),
		Email:    strings.ToLower(docString(doc, "email")),
		Password: docString(doc, "password"),
	}
	user.ID = docID(doc)
	user.CreatedAt = docTime(doc, "createdAt")
	return imp.db.Create(&user).Error
}

func (imp *importer) importBlog(doc map[string]interface{}) error {
	blog := models.BlogModel{
		Title:       docString(doc, "title"),
		Description: docString(doc, "description"),
		Category:    docString(doc, "category"),
		Image:       docString(doc, "image"),
		IsPublished: docBool(doc, "isPublished"),
	}
	blog.ID = docID(doc)
	blog.CreatedAt = docTime(doc, "createdAt")
	return imp.db.Create(&blog).Error
}

func (imp *importer) importComment(doc map[string]interface{}) error {
	comment := models.CommentModel{
		BlogID:  docRefID(doc, "blog"),
		Name:    docString(doc, "name"),
		Content: docString(doc, "content"),
	}
	comment.ID = docID(doc)
	comment.CreatedAt = docTime(doc, "createdAt")
	if comment.BlogID == "" {
		imp.log.Warn("comment without blog reference, skipping", zap.String("id", comment.ID))
		return nil
	}
	return imp.db.Create(&comment).Error
}

func (imp *importer) importSubscriber(doc map[string]interface{}) error {
	sub := models.SubscriberModel{
		UserID:       docRefID(doc, "user"),
		Email:        strings.ToLower(docString(doc, "email")),
		Name:         docString(doc, "name"),
		IsSubscribed: docBool(doc, "isSubscribed"),
	}
	sub.ID = docID(doc)
	sub.CreatedAt = docTime(doc, "createdAt")
	if t, ok := docTimeOK(doc, "unsubscribedAt"); ok {
		sub.UnsubscribedAt = &t
	}
	return imp.db.Create(&sub).Error
}

func (imp *importer) importContact(doc map[string]interface{}) error {
	contact := models.ContactModel{
		Name:    docString(doc, "name"),
		Email:   docString(doc, "email"),
		Message: docString(doc, "message"),
	}
	contact.ID = docID(doc)
	contact.CreatedAt = docTime(doc, "createdAt")
	return imp.db.Create(&contact).Error
}

func docID(doc map[string]interface{}) string {
	return objectIDHex(doc["_id"])
}

func docRefID(doc map[string]interface{}, key string) string {
	return objectIDHex(doc[key])
}

func objectIDHex(value interface{}) string {
	switch v := value.(type) {
	case primitive.ObjectID:
		return v.Hex()
	case string:
		return v
	default:
		return ""
	}
}

func docString(doc map[string]interface{}, key string) string {
	s, _ := doc[key].(string)
	return s
}

func docBool(doc map[string]interface{}, key string) bool {
	b, _ := doc[key].(bool)
	return b
}

func docTime(doc map[string]interface{}, key string) time.Time {
	if t, ok := docTimeOK(doc, key); ok {
		return t
	}
	return time.Now()
}

func docTimeOK(doc map[string]interface{}, key string) (time.Time, bool) {
	switch v := doc[key].(type) {
	case primitive.DateTime:
		return v.Time(), true
	case time.Time:
		return v, true
	default:
		return time.Time{}, false
	}
}
