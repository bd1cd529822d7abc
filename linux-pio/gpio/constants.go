package gpio

const gpioGetLinehandleIoctl uintptr = 0xc16cb403
const gpiohandleGetLineValuesIoctl uintptr = 0xc040b408

// MaxLines is the number of slots in a v1 handle request
const MaxLines = 64

// MaxNameSize is the size of the consumer label field, including the NUL
const MaxNameSize = 32

type RequestFlag uint32

const RequestInput RequestFlag = 0x00000001
const RequestOutput RequestFlag = 0x00000002
