package alsa

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// ALSA sequencer ioctl numbers, computed the same way <sound/asequencer.h>
// does with the kernel's _IOWR/_IOR/_IOW macros ('A' magic, see
// include/uapi/sound/asequencer.h SNDRV_SEQ_IOCTL_*).
const (
	iocMagic = 'A'

	iocPversion       = 0x00
	iocClientID       = 0x01
	iocGetClientInfo  = 0x02
	iocSetClientInfo  = 0x03
	iocCreatePort     = 0x04
	iocDeletePort     = 0x05
	iocGetPortInfo    = 0x06
	iocSetPortInfo    = 0x07
	iocSubscribePort  = 0x08
	iocUnsubscribePort = 0x09
	iocCreateQueue    = 0x0a
	iocGetQueueInfo   = 0x0c
	iocSystemInfo     = 0x30
	iocQueryNextClient = 0x33
	iocQueryNextPort   = 0x34
)

func iowr(nr, size uintptr) uintptr {
	const (
		iocWrite = 1
		iocRead  = 2
		dirShift = 30
		sizeShift = 16
		typeShift = 8
	)

	return (iocRead|iocWrite)<<dirShift | size<<sizeShift | uintptr(iocMagic)<<typeShift | nr
}

func ioctl(fd int, req uintptr, arg unsafe.Pointer) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), req, uintptr(arg))
	if errno != 0 {
		return errno
	}

	return nil
}

func ioctlClientID(fd int) (int32, error) {
	var id int32

	err := ioctl(fd, iowr(iocClientID, unsafe.Sizeof(id)), unsafe.Pointer(&id))

	return id, err
}

func ioctlGetClientInfo(fd int, client int32) (*clientInfo, error) {
	info := clientInfo{Client: client}

	err := ioctl(fd, iowr(iocGetClientInfo, uintptr(sizeofClientInfo)), unsafe.Pointer(&info))

	return &info, err
}

func ioctlSetClientInfo(fd int, info *clientInfo) error {
	return ioctl(fd, iowr(iocSetClientInfo, uintptr(sizeofClientInfo)), unsafe.Pointer(info))
}

func ioctlCreatePort(fd int, info *portInfo) error {
	return ioctl(fd, iowr(iocCreatePort, uintptr(sizeofPortInfo)), unsafe.Pointer(info))
}

func ioctlDeletePort(fd int, info *portInfo) error {
	return ioctl(fd, iowr(iocDeletePort, uintptr(sizeofPortInfo)), unsafe.Pointer(info))
}

func ioctlGetPortInfo(fd int, addr addrT) (*portInfo, error) {
	info := portInfo{Addr: addr}

	err := ioctl(fd, iowr(iocGetPortInfo, uintptr(sizeofPortInfo)), unsafe.Pointer(&info))

	return &info, err
}

func ioctlSubscribePort(fd int, sub *portSubscribe) error {
	return ioctl(fd, iowr(iocSubscribePort, unsafe.Sizeof(*sub)), unsafe.Pointer(sub))
}

func ioctlUnsubscribePort(fd int, sub *portSubscribe) error {
	return ioctl(fd, iowr(iocUnsubscribePort, unsafe.Sizeof(*sub)), unsafe.Pointer(sub))
}

func ioctlSystemInfo(fd int) (*systemInfo, error) {
	var info systemInfo

	err := ioctl(fd, iowr(iocSystemInfo, unsafe.Sizeof(info)), unsafe.Pointer(&info))

	return &info, err
}

// ioctlQueryNextClient advances info.Client to the next client at or after
// the id already stored in it, kernel-driver-iterator style.
func ioctlQueryNextClient(fd int, info *clientInfo) error {
	return ioctl(fd, iowr(iocQueryNextClient, uintptr(sizeofClientInfo)), unsafe.Pointer(info))
}

// ioctlQueryNextPort advances info.Addr.Port to the next port of
// info.Addr.Client at or after the port id already stored in it.
func ioctlQueryNextPort(fd int, info *portInfo) error {
	return ioctl(fd, iowr(iocQueryNextPort, uintptr(sizeofPortInfo)), unsafe.Pointer(info))
}
