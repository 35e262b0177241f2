package sql

type (
	users struct{}
	posts struct{}
)

var (
	Users     = NewTable[users]("users")
	UserID    = IntegerColumn(Users, "id", PrimaryKey())
	UserName  = TextColumn(Users, "name")
	UserEmail = NullableTextColumn(Users, "email")
	UserAdmin = BoolColumn(Users, "admin")

	Posts     = NewTable[posts]("posts")
	PostID    = IntegerColumn(Posts, "id", PrimaryKey())
	PostTitle = TextColumn(Posts, "title")
)
