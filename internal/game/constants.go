package game

// Faction id used as the owner of every zombie and the enemy base.
const EnemyFaction = "enemy"

// Map and placement.
const (
	defaultMapSize  = 64
	baseEdgeOffset  = 8.0
	baseSpacing     = 4.0
	spawnRingRadius = 2.0
	buildRadius     = 10.0
)

// Costs and economy.
const (
	unitCost      = 50
	houseCost     = 50
	mineCost      = 100
	wallCost      = 10
	zombieBounty  = 10
	mineIncome    = 5
	housePopBonus = 5
	startingGold  = 100
	startingPop   = 5
)

// Baseline combat attributes. Zombie values are scaled by difficulty.
const (
	unitMaxHP    = 50.0
	unitDamage   = 10.0
	unitRange    = 1.2
	unitSpeed    = 3.0
	zombieMaxHP  = 30.0
	zombieDamage = 5.0
	zombieRange  = 1.0
	zombieSpeed  = 2.0
	baseMaxHP    = 500.0
	houseMaxHP   = 100.0
	mineMaxHP    = 80.0
	wallMaxHP    = 60.0
)

// Collision radii, in tile units.
const (
	unitRadius     = 0.35
	zombieRadius   = 0.35
	baseRadius     = 1.5
	buildingRadius = 0.5
	wallRadius     = 0.45
)

// Tick-loop tuning.
const (
	attackInterval     = 1.0
	pathRecalcInterval = 0.4
	waypointTolerance  = 0.25
	rangeBuffer        = 0.15
	occupancyTolerance = 0.5
)

// Wall targeting.
const (
	wallSearchRadius = 6.0
	wallBlockSlack   = 0.3
	// Attackers this close to a blocking wall always break through rather
	// than path around it.
	closeWallDistance = 2.0
	// Effective radius attackers must close to before hitting a wall.
	wallEffectiveRadius = 0.25
	// A locked wall farther than this is abandoned for the primary target.
	maxWallPursuit = 8.0
	// Radius for the opportunistic wall lock when a path is abandoned.
	adjacentWallRadius = 1.5
	// Path-vs-direct detour ratio beyond which zombies break through.
	wallDetourRatio = 1.25
)

// Wave scheduling.
const (
	waveBaseCount  = 4
	waveGrowth     = 2
	waveHPGrowth   = 0.05
	perPlayerWaveN = 1
)
