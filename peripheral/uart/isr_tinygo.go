//go:build tinygo && cortexm

package uart

//export UART0_IRQHandler
func uart0IRQHandler() {
	Vectors[0].Invoke()
}

//export UART1_IRQHandler
func uart1IRQHandler() {
	Vectors[1].Invoke()
}

//export UART2_IRQHandler
func uart2IRQHandler() {
	Vectors[2].Invoke()
}
