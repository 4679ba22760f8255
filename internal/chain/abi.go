package chain

// penaltyShootoutABI is the subset of the PenaltyShootout contract used here.
const penaltyShootoutABI = `[
	{"inputs":[{"internalType":"uint8","name":"playerMove","type":"uint8"}],"name":"requestKick","outputs":[],"stateMutability":"payable","type":"function"},
	{"inputs":[],"name":"getEntropyFee","outputs":[{"internalType":"uint256","name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
	{"inputs":[{"internalType":"address","name":"","type":"address"}],"name":"playerStats","outputs":[
		{"internalType":"uint256","name":"currentStreak","type":"uint256"},
		{"internalType":"uint256","name":"highestStreak","type":"uint256"},
		{"internalType":"uint256","name":"totalPoints","type":"uint256"},
		{"internalType":"bool","name":"isOnFire","type":"bool"}
	],"stateMutability":"view","type":"function"},
	{"inputs":[{"internalType":"uint64","name":"","type":"uint64"}],"name":"rounds","outputs":[
		{"internalType":"address","name":"player","type":"address"},
		{"internalType":"uint8","name":"playerMove","type":"uint8"},
		{"internalType":"uint64","name":"sequenceNumber","type":"uint64"},
		{"internalType":"bool","name":"fulfilled","type":"bool"},
		{"internalType":"bool","name":"isGoal","type":"bool"},
		{"internalType":"uint8","name":"actualPlayerMove","type":"uint8"},
		{"internalType":"uint8","name":"goalieMove","type":"uint8"},
		{"internalType":"uint8","name":"windStrength","type":"uint8"}
	],"stateMutability":"view","type":"function"},
	{"anonymous":false,"inputs":[
		{"indexed":true,"internalType":"uint64","name":"sequenceNumber","type":"uint64"},
		{"indexed":true,"internalType":"address","name":"player","type":"address"},
		{"indexed":false,"internalType":"uint8","name":"playerMove","type":"uint8"}
	],"name":"KickRequested","type":"event"}
]`

const (
	methodRequestKick = "requestKick"
	methodFee         = "getEntropyFee"
	methodStats       = "playerStats"
	methodRounds      = "rounds"
	eventRequested    = "KickRequested"
)
