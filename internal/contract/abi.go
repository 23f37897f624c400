package contract

// RPSABI is the ABI of the two RPS methods the client uses.
const RPSABI = `[
  {
    "inputs": [{"internalType": "uint8", "name": "move", "type": "uint8"}],
    "name": "play",
    "outputs": [],
    "stateMutability": "nonpayable",
    "type": "function"
  },
  {
    "inputs": [],
    "name": "getHistory",
    "outputs": [
      {
        "components": [
          {"internalType": "address", "name": "player", "type": "address"},
          {"internalType": "enum RPS.Move", "name": "playerMove", "type": "uint8"},
          {"internalType": "enum RPS.Move", "name": "contractMove", "type": "uint8"},
          {"internalType": "bool", "name": "win", "type": "bool"}
        ],
        "internalType": "struct RPS.Game[]",
        "name": "",
        "type": "tuple[]"
      }
    ],
    "stateMutability": "view",
    "type": "function"
  }
]`

const (
	methodPlay       = "play"
	methodGetHistory = "getHistory"
)
