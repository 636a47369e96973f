package models

import "time"

// Favorite is the model for a user's bookmark of a recipe. A user can
// favorite a given recipe at most once; idx_favorites_user_recipe enforces it.
type Favorite struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"size:64;not null;uniqueIndex:idx_favorites_user_recipe" json:"userId"`
	RecipeID  string    `gorm:"size:64;not null;uniqueIndex:idx_favorites_user_recipe;index" json:"recipeId"`
	Recipe    *Recipe   `gorm:"foreignKey:RecipeID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"recipe,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// TableName returns the table name for Favorite.
func (Favorite) TableName() string {
	return "favorites"
}
