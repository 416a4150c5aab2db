package models

import "time"

// Source values recorded on a SaveRecord.
const (
	// SourceCreate marks saves made through the manager.
	SourceCreate = "create"
	// SourceAutosave marks snapshots taken by the live-save watcher.
	SourceAutosave = "autosave"
	// SourceImport marks files found in the saves folder by a rescan.
	SourceImport = "import"
)

// SaveRecord is one cataloged save file. The key is (game, file_name) where
// file_name is the path relative to the saves folder, slash separated, so
// automatic snapshots catalog as "auto/<stamp>.cogsav".
type SaveRecord struct {
	ID        string    `gorm:"column:id;primaryKey;type:varchar(36)" json:"id"`
	Game      string    `gorm:"column:game;index:idx_game_file,unique" json:"game"`
	FileName  string    `gorm:"column:file_name;index:idx_game_file,unique" json:"file_name"`
	Label     string    `gorm:"column:label" json:"label"`
	Character string    `gorm:"column:character" json:"character"`
	Scene     string    `gorm:"column:scene" json:"scene"`
	Sha256    string    `gorm:"column:sha256;type:char(64)" json:"sha256"`
	Size      int64     `gorm:"column:size" json:"size"`
	Source    string    `gorm:"column:source" json:"source"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

// TableName overrides the table name used by GORM.
func (SaveRecord) TableName() string {
	return "save_records"
}

// Title returns the label if one was given, the file name otherwise.
func (r SaveRecord) Title() string {
	if r.Label != "" {
		return r.Label
	}
	return r.FileName
}
