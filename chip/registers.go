// Package chip describes the memory-mapped register blocks of the Kinetis E
// series and binds them to a bus and a chip profile.
package chip

// Register offsets are relative to the peripheral base address. Access
// modes are noted as (R) read-only, (W) write-only and (RW) read-write.

// UART, byte-wide registers
const (
	UART_BDH = 0x00 // (RW) baud rate high
	UART_BDL = 0x01 // (RW) baud rate low
	UART_C1  = 0x02 // (RW) control 1
	UART_C2  = 0x03 // (RW) control 2
	UART_S1  = 0x04 // (R) status 1
	UART_S2  = 0x05 // (RW) status 2
	UART_C3  = 0x06 // (RW) control 3
	UART_D   = 0x07 // (RW) data

	UART_SIZE = 0x08
)

const (
	UART_BDH_SBR_Msk = 0x1F

	UART_C2_TIE  = 1 << 7
	UART_C2_TCIE = 1 << 6
	UART_C2_RIE  = 1 << 5
	UART_C2_ILIE = 1 << 4
	UART_C2_TE   = 1 << 3
	UART_C2_RE   = 1 << 2
	UART_C2_RWU  = 1 << 1
	UART_C2_SBK  = 1 << 0

	UART_S1_TDRE = 1 << 7
	UART_S1_TC   = 1 << 6
	UART_S1_RDRF = 1 << 5
	UART_S1_IDLE = 1 << 4
	UART_S1_OR   = 1 << 3
	UART_S1_NF   = 1 << 2
	UART_S1_FE   = 1 << 1
	UART_S1_PF   = 1 << 0

	// Largest divisor the 13-bit SBR field can hold
	UART_SBR_MAX = 0x1FFF
)

// GPIO bank, word-wide registers. One bank holds four 8-bit ports.
const (
	GPIO_PDOR = 0x00 // (RW) data output
	GPIO_PSOR = 0x04 // (W) set output
	GPIO_PCOR = 0x08 // (W) clear output
	GPIO_PTOR = 0x0C // (W) toggle output
	GPIO_PDIR = 0x10 // (R) data input
	GPIO_PDDR = 0x14 // (RW) data direction
	GPIO_PIDR = 0x18 // (RW) input disable

	GPIO_SIZE = 0x1C

	GPIO_PORTS_PER_BANK = 4
	GPIO_PINS_PER_PORT  = 8
)

// SIM, word-wide registers
const (
	SIM_SRSID   = 0x00 // (R) reset status and ID
	SIM_SOPT0   = 0x04 // (RW) options 0
	SIM_SOPT1   = 0x08 // (RW) options 1
	SIM_PINSEL  = 0x0C // (RW) pin selection 0
	SIM_PINSEL1 = 0x10 // (RW) pin selection 1
	SIM_SCGC    = 0x14 // (RW) clock gating
	SIM_UUIDL   = 0x18 // (R) unique ID low
	SIM_UUIDML  = 0x1C // (R) unique ID middle low
	SIM_UUIDMH  = 0x20 // (R) unique ID middle high
	SIM_CLKDIV  = 0x24 // (RW) clock divider

	SIM_SIZE = 0x28
)

const (
	SIM_SRSID_LVD     = 1 << 1
	SIM_SRSID_LOC     = 1 << 2
	SIM_SRSID_WDOG    = 1 << 5
	SIM_SRSID_PIN     = 1 << 6
	SIM_SRSID_POR     = 1 << 7
	SIM_SRSID_LOCKUP  = 1 << 9
	SIM_SRSID_SW      = 1 << 10
	SIM_SRSID_MDMAP   = 1 << 11
	SIM_SRSID_SACKERR = 1 << 13

	SIM_PINSEL_UART0PS = 1 << 7

	SIM_CLKDIV_OUTDIV1_Pos = 28
	SIM_CLKDIV_OUTDIV1_Msk = 0x3
	SIM_CLKDIV_OUTDIV2_Pos = 24
	SIM_CLKDIV_OUTDIV2_Msk = 0x1
	SIM_CLKDIV_OUTDIV3_Pos = 20
	SIM_CLKDIV_OUTDIV3_Msk = 0x1
)

// SIM_SCGC gate bit positions
const (
	SIM_SCGC_RTC   = 0
	SIM_SCGC_PIT   = 2
	SIM_SCGC_PWT   = 4
	SIM_SCGC_FTM0  = 5
	SIM_SCGC_FTM1  = 6
	SIM_SCGC_FTM2  = 7
	SIM_SCGC_CRC   = 10
	SIM_SCGC_FLASH = 12
	SIM_SCGC_SWD   = 13
	SIM_SCGC_MSCAN = 15
	SIM_SCGC_I2C0  = 16
	SIM_SCGC_I2C1  = 17
	SIM_SCGC_SPI0  = 18
	SIM_SCGC_SPI1  = 19
	SIM_SCGC_UART0 = 20
	SIM_SCGC_UART1 = 21
	SIM_SCGC_UART2 = 22
	SIM_SCGC_KBI0  = 24
	SIM_SCGC_KBI1  = 25
	SIM_SCGC_IRQ   = 27
	SIM_SCGC_ADC   = 29
	SIM_SCGC_ACMP0 = 30
	SIM_SCGC_ACMP1 = 31
)

// ICS, byte-wide registers
const (
	ICS_C1 = 0x00 // (RW) control 1
	ICS_C2 = 0x01 // (RW) control 2
	ICS_C3 = 0x02 // (RW) control 3, trim
	ICS_C4 = 0x03 // (RW) control 4
	ICS_S  = 0x04 // (RW) status, LOLS is write-one-to-clear

	ICS_SIZE = 0x05
)

const (
	ICS_C1_CLKS_Pos = 6
	ICS_C1_CLKS_Msk = 0x3
	ICS_C1_RDIV_Pos = 3
	ICS_C1_RDIV_Msk = 0x7
	ICS_C1_IREFS    = 1 << 2
	ICS_C1_IRCLKEN  = 1 << 1
	ICS_C1_IREFSTEN = 1 << 0

	ICS_C2_BDIV_Pos = 5
	ICS_C2_BDIV_Msk = 0x7
	ICS_C2_LP       = 1 << 4

	ICS_C4_LOLIE   = 1 << 7
	ICS_C4_CME     = 1 << 5
	ICS_C4_SCFTRIM = 1 << 0

	ICS_S_LOLS      = 1 << 7
	ICS_S_LOCK      = 1 << 6
	ICS_S_IREFST    = 1 << 4
	ICS_S_CLKST_Pos = 2
	ICS_S_CLKST_Msk = 0x3

	ICS_C1_RESET = 0x04
	ICS_C2_RESET = 0x20
	ICS_S_RESET  = 0x10
)

// OSC, one byte-wide register
const (
	OSC_CR = 0x00 // (RW) control

	OSC_SIZE = 0x01
)

const (
	OSC_CR_OSCEN   = 1 << 7
	OSC_CR_OSCSTEN = 1 << 5
	OSC_CR_OSCOS   = 1 << 4
	OSC_CR_RANGE   = 1 << 2
	OSC_CR_HGO     = 1 << 1
	OSC_CR_OSCINIT = 1 << 0
)
