package entity

// PlacedLocation 网格完全坍缩后才创建，之后不可变。
type PlacedLocation struct {
	Pos  Position   `json:"pos" bson:"pos"`
	Kind LocationID `json:"kind" bson:"kind"`
}
