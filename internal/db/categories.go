package db

import (
	"strings"

	"gorm.io/gorm/clause"

	"github.com/skillscout/skillscout/internal/models"
)

// defaultCategories is the fixed taxonomy seeded at migration time.
var defaultCategories = []models.Category{
	{ID: "documents", Name: "Documents", Keywords: "pdf,docx,document,markdown,report,spreadsheet,xlsx"},
	{ID: "development", Name: "Development", Keywords: "code,coding,debug,refactor,test,testing,git,api"},
	{ID: "data", Name: "Data", Keywords: "data,csv,sql,database,analysis,analytics,etl"},
	{ID: "web", Name: "Web", Keywords: "web,html,css,frontend,scrape,scraping,browser"},
	{ID: "automation", Name: "Automation", Keywords: "automation,workflow,pipeline,schedule,deploy,ci"},
	{ID: "writing", Name: "Writing", Keywords: "writing,blog,copy,email,summary,translate"},
	{ID: "design", Name: "Design", Keywords: "design,image,figma,ui,ux,diagram,chart"},
}

func (db *DB) seedCategories() error {
	for _, category := range defaultCategories {
		if err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoNothing: true,
		}).Create(&category).Error; err != nil {
			return err
		}
	}
	return nil
}

// ListCategories returns the taxonomy.
func (db *DB) ListCategories() ([]models.Category, error) {
	var categories []models.Category
	err := db.Order("id ASC").Find(&categories).Error
	return categories, err
}

// LinkCategories links a record to every category whose keywords match the
// skill's name or description. Existing links are replaced.
func (db *DB) LinkCategories(skillID, name, description string) error {
	categories, err := db.ListCategories()
	if err != nil {
		return err
	}

	haystack := strings.ToLower(name + " " + description)
	var matched []models.Category
	for _, category := range categories {
		for _, keyword := range strings.Split(category.Keywords, ",") {
			keyword = strings.TrimSpace(keyword)
			if keyword != "" && strings.Contains(haystack, keyword) {
				matched = append(matched, category)
				break
			}
		}
	}

	skill := models.SkillRecord{ID: skillID}
	return db.Model(&skill).Association("Categories").Replace(matched)
}

// GetSkillCategories returns the categories linked to a record.
func (db *DB) GetSkillCategories(skillID string) ([]models.Category, error) {
	skill := models.SkillRecord{ID: skillID}
	var categories []models.Category
	err := db.Model(&skill).Association("Categories").Find(&categories)
	return categories, err
}
