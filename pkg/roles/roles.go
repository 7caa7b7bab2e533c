package roles

// Code identifies a staff role. The authoritative hierarchy level lives in
// the roles table; the values here are the defaults the migrations seed.
type Code string

const (
	Mechanic    Code = "mechanic"
	ShopAnalyst Code = "shop_analyst"
	Supervisor  Code = "supervisor"
	Coordinator Code = "coordinator"
	Manager     Code = "manager"
	Director    Code = "director"
)

const (
	MechanicLevel    = 1
	ShopAnalystLevel = 2
	SupervisorLevel  = 3
	CoordinatorLevel = 4
	ManagerLevel     = 5
	DirectorLevel    = 6
)

var defaultLevels = map[Code]int{
	Mechanic:    MechanicLevel,
	ShopAnalyst: ShopAnalystLevel,
	Supervisor:  SupervisorLevel,
	Coordinator: CoordinatorLevel,
	Manager:     ManagerLevel,
	Director:    DirectorLevel,
}

// DefaultLevel returns the seeded hierarchy level for a role code.
func (c Code) DefaultLevel() int {
	if level, ok := defaultLevels[c]; ok {
		return level
	}
	return MechanicLevel
}

// HasPermission compares two roles by their default levels.
func (c Code) HasPermission(required Code) bool {
	return c.DefaultLevel() >= required.DefaultLevel()
}

func (c Code) IsValid() bool {
	_, ok := defaultLevels[c]
	return ok
}

func (c Code) String() string {
	return string(c)
}
