package seaswap

// ChainID represents a blockchain chain ID
type ChainID int

const (
	ChainIDMainnet ChainID = 1 // Ethereum mainnet
	ChainIDGoerli  ChainID = 5 // Goerli testnet
)

// SupportedChainIDs lists all supported chain IDs
var SupportedChainIDs = []ChainID{ChainIDMainnet, ChainIDGoerli}

// ContractAddresses holds contract addresses for each chain
type ContractAddresses struct {
	Seaport       string
	WrappedNative string
}

// DefaultContractAddresses maps chain IDs to their contract addresses
var DefaultContractAddresses = map[ChainID]ContractAddresses{
	ChainIDMainnet: {
		Seaport:       "0x00000000006c3852cbEf3e08E8dF289169EdE581",
		WrappedNative: "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2",
	},
	ChainIDGoerli: {
		Seaport:       "0x00000000006c3852cbEf3e08E8dF289169EdE581",
		WrappedNative: "0xB4FBF271143F4FBf7B91A5ded31805e42b2208d6",
	},
}

// Platform fee attached to every order
const (
	PlatformFeeRecipient   = "0x0c0d274060766d0F8DcDebc8c4B305a3e8a676C0"
	PlatformFeeBasisPoints = 2
)

// DefaultHost is the record store the client talks to when none is configured
const DefaultHost = "http://localhost:8080"

// NativeDecimals is the number of decimals of ETH
const NativeDecimals = 18

func isSupportedChain(chainID ChainID) bool {
	for _, supportedID := range SupportedChainIDs {
		if chainID == supportedID {
			return true
		}
	}
	return false
}
